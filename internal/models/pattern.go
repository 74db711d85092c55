package models

// DomainPattern associates a named tool with URL fragments and keywords.
// A task whose context key names the pattern is considered bound to it.
type DomainPattern struct {
	ID       string   `json:"id" toml:"id"`
	Name     string   `json:"name" toml:"name"`
	Patterns []string `json:"patterns" toml:"patterns"`
	Keywords []string `json:"keywords" toml:"keywords"`
}

// DefaultDomainPatterns returns the patterns installed on first run.
func DefaultDomainPatterns() []DomainPattern {
	return []DomainPattern{
		{
			ID:       "gmail",
			Name:     "Gmail",
			Patterns: []string{"gmail.com", "mail.google.com"},
			Keywords: []string{"gmail", "mail", "メール", "email"},
		},
		{
			ID:       "drive",
			Name:     "Google Drive",
			Patterns: []string{"drive.google.com", "docs.google.com", "sheets.google.com", "slides.google.com"},
			Keywords: []string{"drive", "docs", "sheets", "slides", "ドライブ", "ドキュメント"},
		},
		{
			ID:       "deploy-console",
			Name:     "Deploy Console",
			Patterns: []string{"console", "deploy", "aws", "gcp", "azure"},
			Keywords: []string{"console", "deploy", "デプロイ", "コンソール", "aws", "gcp", "azure"},
		},
	}
}
