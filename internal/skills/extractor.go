package skills

import (
	"strings"
	"unicode"

	"github.com/bbalet/stopwords"
	"github.com/jdkato/prose/v2"

	"github.com/gitscout/gitscout/internal/github"
)

// knownSkills are technology terms recognized without part-of-speech
// evidence. Seeded from the language/framework/tool vocabularies commonly
// attached to GitHub repositories and issues.
var knownSkills = map[string]struct{}{
	// languages
	"javascript": {}, "typescript": {}, "python": {}, "java": {}, "go": {},
	"rust": {}, "ruby": {}, "php": {}, "c++": {}, "c#": {}, "kotlin": {},
	"swift": {}, "scala": {}, "elixir": {}, "haskell": {}, "lua": {},
	"perl": {}, "html": {}, "css": {}, "sql": {}, "shell": {}, "bash": {},
	"dart": {}, "zig": {}, "objective-c": {},
	// frameworks
	"react": {}, "vue": {}, "angular": {}, "svelte": {}, "django": {},
	"flask": {}, "fastapi": {}, "spring": {}, "express": {}, "rails": {},
	"laravel": {}, "nextjs": {}, "flutter": {}, "node.js": {},
	// tools and platforms
	"docker": {}, "kubernetes": {}, "aws": {}, "gcp": {}, "azure": {},
	"git": {}, "linux": {}, "mongodb": {}, "postgresql": {}, "mysql": {},
	"redis": {}, "kafka": {}, "rabbitmq": {}, "elasticsearch": {},
	"terraform": {}, "ansible": {}, "grpc": {}, "graphql": {}, "webpack": {},
	"nginx": {}, "sqlite": {}, "prometheus": {}, "grafana": {},
	// domains
	"security": {}, "cryptography": {}, "authentication": {},
	"authorization": {}, "frontend": {}, "backend": {}, "fullstack": {},
	"devops": {}, "blockchain": {}, "android": {}, "ios": {}, "mobile": {},
	"accessibility": {}, "performance": {}, "networking": {},
	"concurrency": {}, "compiler": {}, "database": {}, "testing": {},
	"observability": {}, "machine-learning": {}, "deep-learning": {},
}

// aliases folds common spelling variants onto one canonical keyword.
var aliases = map[string]string{
	"golang":     "go",
	"js":         "javascript",
	"ts":         "typescript",
	"py":         "python",
	"reactjs":    "react",
	"react.js":   "react",
	"vuejs":      "vue",
	"vue.js":     "vue",
	"angularjs":  "angular",
	"node":       "node.js",
	"nodejs":     "node.js",
	"next.js":    "nextjs",
	"k8s":        "kubernetes",
	"postgres":   "postgresql",
	"psql":       "postgresql",
	"es":         "elasticsearch",
	"ml":         "machine-learning",
	"dotnet":     "c#",
	"cpp":        "c++",
	"auth":       "authentication",
	"crypto":     "cryptography",
	"a11y":       "accessibility",
	"i18n":       "internationalization",
	"ci/cd":      "devops",
	"dockerfile": "docker",
}

// noiseWords are terms that pass the noun filter on almost any issue tracker
// text without saying anything about required skills.
var noiseWords = map[string]struct{}{
	"issue": {}, "issues": {}, "bug": {}, "bugs": {}, "fix": {},
	"feature": {}, "request": {}, "problem": {}, "error": {}, "errors": {},
	"question": {}, "help": {}, "thanks": {}, "support": {},
	"repo": {}, "repository": {}, "project": {}, "code": {},
	"version": {}, "update": {}, "release": {}, "example": {},
	"documentation": {}, "readme": {}, "discussion": {},
}

// Extractor derives skill keywords from free text. Tokenization and
// part-of-speech tagging are delegated to prose, stop-word removal to the
// stopwords package. Extraction is deterministic for identical input.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the set of normalized skill keywords found in the text.
// Empty or whitespace-only text yields an empty set.
func (e *Extractor) Extract(text string) Set {
	set := NewSet()
	if strings.TrimSpace(text) == "" {
		return set
	}

	// Pass 1: technology tokens straight off the raw text. Runs before any
	// cleaning so that symbol-carrying names like c++, c# and node.js survive.
	for _, token := range techTokens(text) {
		token = normalize(token)
		if isTechToken(token) {
			set.Add(token)
		}
	}

	// Pass 2: noun extraction from stop-word-cleaned text for skills outside
	// the known vocabulary.
	cleaned := stopwords.CleanString(text, "en", false)
	doc, err := prose.NewDocument(cleaned, prose.WithExtraction(false))
	if err != nil {
		return set
	}

	for _, token := range doc.Tokens() {
		if !nounTag(token.Tag) {
			continue
		}
		kw := normalize(token.Text)
		if !keepNoun(kw) {
			continue
		}
		set.Add(kw)
	}

	return set
}

// FromProfile extracts the user's skill set from the profile bio and the
// repositories' names, descriptions, topics and language statistics.
func (e *Extractor) FromProfile(profile *github.Profile, repos github.Repositories) Set {
	set := NewSet()
	if profile != nil {
		set = set.Union(e.Extract(profile.Bio))
	}

	for _, repo := range repos {
		set = set.Union(e.Extract(slugToText(repo.Name)))
		set = set.Union(e.Extract(repo.Description))

		for _, topic := range repo.Topics {
			set = set.Union(e.Extract(slugToText(topic)))
			// Topic slugs such as machine-learning are skills on their own.
			if kw := normalize(topic); kw != "" {
				set.Add(kw)
			}
		}

		// Language names reported by the API are definite skills.
		if repo.Language != "" {
			set.Add(normalize(repo.Language))
		}
		for language := range repo.Languages {
			set.Add(normalize(language))
		}
	}

	return set
}

// FromIssue extracts the skills an issue requires from its title, body and
// labels.
func (e *Extractor) FromIssue(issue *github.Issue) Set {
	set := NewSet()
	if issue == nil {
		return set
	}

	set = set.Union(e.Extract(issue.Title))
	set = set.Union(e.Extract(issue.Body))

	for _, label := range issue.Labels {
		set = set.Union(e.Extract(slugToText(label)))
	}

	return set
}

// techTokens splits text treating + # . as word characters, preserving
// technology names like c++, c# and node.js.
func techTokens(text string) []string {
	var tokens []string
	var word strings.Builder

	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if w != "" {
			tokens = append(tokens, w)
		}
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' || r == '/' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// normalize lowercases the token, strips trailing dots and folds aliases.
func normalize(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	token = strings.TrimRight(token, ".")
	if canonical, ok := aliases[token]; ok {
		return canonical
	}
	return token
}

func isTechToken(token string) bool {
	if _, ok := knownSkills[token]; ok {
		return true
	}
	// Unknown symbol-carrying tokens (node.js-alikes) are kept as long as
	// they contain letters; bare numbers and versions like 1.2.3 are not.
	if strings.ContainsAny(token, "+#.") {
		hasLetter := strings.IndexFunc(token, unicode.IsLetter) >= 0
		return hasLetter && len(token) >= 2
	}
	return false
}

func nounTag(tag string) bool {
	return strings.HasPrefix(tag, "NN")
}

func keepNoun(kw string) bool {
	if len([]rune(kw)) < 3 {
		return false
	}
	if _, ok := noiseWords[kw]; ok {
		return false
	}
	for _, r := range kw {
		if !unicode.IsLetter(r) && r != '-' {
			return false
		}
	}
	return true
}

func slugToText(slug string) string {
	return strings.NewReplacer("-", " ", "_", " ").Replace(slug)
}
