package domain

import (
	"net/url"
	"sort"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CustomerInfo carries create/update fields. Zero values are not sent, so an
// update only touches the fields that are set.
type CustomerInfo struct {
	Name        string            `json:"name,omitempty" validate:"omitempty,max=256"`
	Email       string            `json:"email,omitempty" validate:"omitempty,email,max=512"`
	Description string            `json:"description,omitempty" validate:"omitempty,max=350"`
	Phone       string            `json:"phone,omitempty" validate:"omitempty,max=20"`
	Coupon      string            `json:"coupon,omitempty"`
	Source      string            `json:"source,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" validate:"omitempty,max=50,dive,keys,min=1,max=40,endkeys,max=500"`
}

// Validate checks field formats and bounds.
func (c CustomerInfo) Validate() error {
	return validate.Struct(c)
}

// Values encodes the info as form values. Metadata becomes metadata[key]=value.
func (c CustomerInfo) Values() url.Values {
	v := url.Values{}
	setIf(v, "name", c.Name)
	setIf(v, "email", c.Email)
	setIf(v, "description", c.Description)
	setIf(v, "phone", c.Phone)
	setIf(v, "coupon", c.Coupon)
	setIf(v, "source", c.Source)

	keys := make([]string, 0, len(c.Metadata))
	for k := range c.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.Set("metadata["+k+"]", c.Metadata[k])
	}
	return v
}

// ListParams filters and pages a customer listing.
type ListParams struct {
	Limit         int    `validate:"gte=0,lte=100"`
	Email         string `validate:"omitempty,max=512"`
	StartingAfter string `validate:"excluded_with=EndingBefore"`
	EndingBefore  string
}

// Validate checks the paging bounds.
func (p ListParams) Validate() error {
	return validate.Struct(p)
}

// Values encodes the params as query values; nil when nothing is set.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	setIf(v, "email", p.Email)
	setIf(v, "starting_after", p.StartingAfter)
	setIf(v, "ending_before", p.EndingBefore)
	if len(v) == 0 {
		return nil
	}
	return v
}

func setIf(v url.Values, key, val string) {
	if val != "" {
		v.Set(key, val)
	}
}
