package usecase

import "strings"

// Slug lowercases and replaces spaces with underscores. It is the only
// normalization applied to artifact names.
func Slug(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
}

func CompanyArtifact(company string) string {
	return "company_" + Slug(company) + ".txt"
}

func PersonArtifact(name string) string {
	return "linkedin_" + Slug(name) + ".txt"
}

func ReportArtifact(company, name string) string {
	return "report_" + Slug(company) + "_" + Slug(name) + ".txt"
}

func CommunicationArtifact(leadID string) string {
	return "comm_" + leadID + ".txt"
}

func MessageArtifact(company, name string) string {
	return "message_" + Slug(company) + "_" + Slug(name) + ".txt"
}

// readArtifactOrPlaceholder mirrors the drafting inputs: a missing file
// becomes a readable placeholder line instead of an error.
func readArtifactOrPlaceholder(store ArtifactStore, name string) string {
	content, err := store.Read(name)
	if err != nil {
		return "Error reading " + name + ": " + err.Error()
	}
	return strings.TrimSpace(content)
}
