// Package factory builds realistic customer fixtures for tests and seeding.
package factory

import (
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/samvad-hq/stripe-workflows/internal/domain"
)

// Factory generates customer info. A fixed seed yields a repeatable sequence.
type Factory struct {
	faker *gofakeit.Faker
}

// New returns a factory; seed 0 picks a random seed.
func New(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// CustomerInfo builds a customer whose name and email derive from the same
// first/last name pair.
func (f *Factory) CustomerInfo() domain.CustomerInfo {
	first := f.faker.FirstName()
	last := f.faker.LastName()
	return domain.CustomerInfo{
		Name:        first + " " + last,
		Email:       emailLocal(first) + "." + emailLocal(last) + "@example.com",
		Description: f.faker.Sentence(6),
	}
}

// CustomerInfos builds n customers.
func (f *Factory) CustomerInfos(n int) []domain.CustomerInfo {
	out := make([]domain.CustomerInfo, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, f.CustomerInfo())
	}
	return out
}

func emailLocal(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "x"
	}
	return b.String()
}
