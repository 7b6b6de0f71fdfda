package reply

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const EcoScanStatus = "EcoScan Complete"

//go:embed ecoscan.schema.json
var ecoScanSchema string

var ecoScanSchemaLoader = gojsonschema.NewStringLoader(ecoScanSchema)

// EcoScanFallback is the eco scan reported when the model reply cannot be
// used. A fresh map is returned on every call.
func EcoScanFallback() map[string]any {
	return map[string]any{
		"scan_result": map[string]any{
			"eco_score":    50,
			"verdict":      "Use With Caution",
			"impact_level": "Moderate",
			"confidence":   "Low",
		},
		"signals": map[string]any{
			"positive": []any{},
			"negative": []any{"Unable to analyze properly"},
		},
		"impact_insight": "Analysis uncertainty due to limited data.",
		"recommendation": "Check product material and packaging details.",
	}
}

// EcoScan parses raw into an eco scan object and stamps it with the status
// marker and productURL. Anything that is not a JSON object becomes the
// fallback. The second result reports whether the model reply was used.
func EcoScan(raw string, productURL string) (map[string]any, bool) {
	v, ok := ParseOr(raw, EcoScanFallback)
	scan, isObject := v.(map[string]any)
	if !isObject {
		scan, ok = EcoScanFallback(), false
	}
	return Stamp(scan, productURL), ok
}

// Stamp adds the status marker and the product URL to scan.
func Stamp(scan map[string]any, productURL string) map[string]any {
	scan["status"] = EcoScanStatus
	scan["product_url"] = productURL
	return scan
}

// CheckEcoScan validates scan against the eco scan schema and returns the
// violations. It never modifies scan.
func CheckEcoScan(scan map[string]any) ([]string, error) {
	result, err := gojsonschema.Validate(ecoScanSchemaLoader, gojsonschema.NewGoLoader(scan))
	if err != nil {
		return nil, fmt.Errorf("failed to validate eco scan against schema: %v", err)
	}
	if result.Valid() {
		return nil, nil
	}
	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return issues, nil
}
