package transformers

import (
	"strings"
)

type addressTransformer struct{}

func NewAddressTransformer() AddressTransformer {
	return &addressTransformer{}
}

func (t *addressTransformer) NormalizeAddressComponent(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}
