package search

// Synonyms maps a normalised title keyword to alternatives employers use in
// posting titles.
var Synonyms = map[string][]string{
	"developer":  {"engineer", "programmer"},
	"engineer":   {"developer"},
	"frontend":   {"front end", "ui developer", "web developer"},
	"backend":    {"back end", "server developer", "api developer"},
	"full stack": {"fullstack", "full-stack"},
	"intern":     {"internship", "trainee"},
	"part time":  {"part-time"},
	"designer":   {"ui designer", "ux designer", "graphic designer"},
	"admin":      {"administrator", "administrative assistant"},
	"warehouse":  {"logistics", "fulfillment"},
}

func GetSynonyms(query string) []string {
	v, ok := Synonyms[query]
	if !ok {
		return []string{}
	}
	return append([]string(nil), v...)
}
