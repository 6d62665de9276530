package entity

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProductValidate(t *testing.T) {
	valid := Product{
		Name:        "Samsung Galaxy S23",
		URL:         "https://example.com/samsung",
		TargetPrice: decimal.NewFromFloat(2500.00),
	}

	tests := []struct {
		name    string
		mutate  func(p *Product)
		wantErr string
	}{
		{
			name:   "valid product",
			mutate: func(p *Product) {},
		},
		{
			name:    "empty name",
			mutate:  func(p *Product) { p.Name = "" },
			wantErr: "name",
		},
		{
			name:    "name too long",
			mutate:  func(p *Product) { p.Name = strings.Repeat("a", 256) },
			wantErr: "name",
		},
		{
			name:    "empty url",
			mutate:  func(p *Product) { p.URL = "" },
			wantErr: "url",
		},
		{
			name:    "ftp scheme",
			mutate:  func(p *Product) { p.URL = "ftp://example.com/file" },
			wantErr: "url",
		},
		{
			name:    "negative target price",
			mutate:  func(p *Product) { p.TargetPrice = decimal.NewFromFloat(-1) },
			wantErr: "target_price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("http://shop.example.com/item/42"))
	assert.NoError(t, ValidateURL("https://shop.example.com/item/42?ref=a"))

	assert.Error(t, ValidateURL(""))
	assert.Error(t, ValidateURL("not a url"))
	assert.Error(t, ValidateURL("file:///etc/passwd"))
	assert.Error(t, ValidateURL("https://"+strings.Repeat("a", 2048)+".com"))
}
