// Package docs embeds the OpenAPI description served under /swagger/.
package docs

import (
	_ "embed"
	"strconv"
	"strings"
)

//go:embed swagger.yaml
var swaggerYAML string

// Render fills the placeholders that depend on runtime configuration.
func Render(baseURL string, minAmount, billFee int64) []byte {
	r := strings.NewReplacer(
		"{{BASE_URL}}", baseURL,
		"{{MIN_TRANSACTION_AMOUNT}}", strconv.FormatInt(minAmount, 10),
		"{{BILL_FEE}}", strconv.FormatInt(billFee, 10),
	)
	return []byte(r.Replace(swaggerYAML))
}
