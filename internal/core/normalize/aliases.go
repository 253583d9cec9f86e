package normalize

// DefaultAliasTable maps canonical names to the alternate spellings the two
// books use for the same side. Keys and values are in normalized lowercase
// form. Pass it to New, or merge overrides from config on top.
func DefaultAliasTable() map[string][]string {
	return map[string][]string{
		"north korea":    {"korea dpr", "dpr korea", "democratic people's republic of korea"},
		"south korea":    {"korea republic", "republic of korea"},
		"ivory coast":    {"cote d'ivoire"},
		"czech republic": {"czechia"},
		"united states":  {"usa", "us", "united states of america"},
		"iran":           {"iran isl", "islamic republic of iran"},
		"russia":         {"russian federation"},
		"tottenham":      {"tottenham hotspur", "spurs"},
		"psg":            {"paris saint germain", "paris sg"},
		"tiger cats":     {"tiger-cats", "hamilton tiger cats", "hamilton tiger-cats"},
		"blue bombers":   {"winnipeg blue bombers"},
		"roughriders":    {"saskatchewan roughriders"},
		"stampeders":     {"calgary stampeders"},
		"eskimos":        {"edmonton eskimos", "edmonton elks"},
		"redblacks":      {"ottawa redblacks"},
		"argonauts":      {"toronto argonauts"},
		"alouettes":      {"montreal alouettes"},
		"lions":          {"bc lions", "british columbia lions"},
		"new york":       {"ny"},
		"los angeles":    {"la"},
		"st louis":       {"st. louis"},
		"inter":          {"inter milan", "internazionale"},
		"altach":         {"rheindorf altach", "scr altach"},
	}
}
