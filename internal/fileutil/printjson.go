package fileutil

import (
	"os"

	json "github.com/goccy/go-json"
)

func PrintJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
