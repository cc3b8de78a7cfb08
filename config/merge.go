package config

// mergeMaps deep-merges src into dst. Nested maps merge recursively; any
// other value, including a map replacing a scalar, overwrites.
func mergeMaps(dst, src map[string]any) {
	for key, val := range src {
		srcNested, srcIsMap := val.(map[string]any)
		dstNested, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			mergeMaps(dstNested, srcNested)
			continue
		}
		dst[key] = val
	}
}
