package config

// ResolveUseCase implements spec §4.1's use-case resolution order: an exact
// match for uc, falling back to "root" when uc isn't "root" itself, and
// finally "" (no entry) when neither is configured.
func ResolveUseCase(agents map[string]string, uc string) string {
	if agents == nil {
		return ""
	}
	if name, ok := agents[uc]; ok && name != "" {
		return name
	}
	if uc != "root" {
		if name, ok := agents["root"]; ok && name != "" {
			return name
		}
	}
	return ""
}
