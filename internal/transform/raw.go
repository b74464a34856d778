package transform

// Accessors for raw JSON-LD documents decoded into generic Go values. Missing
// or mistyped keys read as zero values; the engine treats absence as normal,
// never as a failure.

func rawMap(obj map[string]any, key string) map[string]any {
	value, _ := obj[key].(map[string]any)
	return value
}

func rawString(obj map[string]any, key string) string {
	value, _ := obj[key].(string)
	return value
}

func rawSlice(obj map[string]any, key string) []any {
	value, _ := obj[key].([]any)
	return value
}

func rawBool(obj map[string]any, key string) bool {
	value, _ := obj[key].(bool)
	return value
}

// rawStringOr reads a string attribute, falling back when the key is absent
// entirely. A present-but-empty string is kept, matching upstream behaviour.
func rawStringOr(obj map[string]any, key, fallback string) string {
	if value, ok := obj[key].(string); ok {
		return value
	}
	return fallback
}
