package model

// mergeByName implements spec §4.1's merge rule: start with the Builtin
// vector in enumeration order; for each higher-precedence vector, upsert by
// name (same name replaces in place, new name appends).
func mergeByName(vectors ...[]Info) []Info {
	var result []Info
	index := make(map[string]int)
	for _, vec := range vectors {
		for _, info := range vec {
			if pos, ok := index[info.Name]; ok {
				if info.Scope.precedence() >= result[pos].Scope.precedence() {
					result[pos] = info
				}
				continue
			}
			index[info.Name] = len(result)
			result = append(result, info)
		}
	}
	return result
}
