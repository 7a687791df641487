package facility

import (
	"encoding/json"
	"fmt"
	"os"
)

// ParamsEnv is the environment variable adapters read their own settings
// from. Adapters are constructed with no arguments; facility-specific
// configuration travels out of band as a JSON document.
const ParamsEnv = "IRI_API_PARAMS"

// Params unmarshals the IRI_API_PARAMS JSON document into v. A missing
// variable is not an error: v keeps its zero values and adapters fall
// back to their defaults. A present but malformed document is an error,
// which adapters surface on first use so it becomes a per-request denial
// rather than accidental authorization.
func Params(v any) error {
	raw := os.Getenv(ParamsEnv)
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("parsing %s: %w", ParamsEnv, err)
	}
	return nil
}
