package usecase

import (
	"fmt"
	"strings"
)

// Evidence labels. Company and person sources share the search labels.
const (
	SourceWikipedia    = "wikipedia"
	SourceNewsAPI      = "newsapi"
	SourceGoogleNews   = "google_news"
	SourceDuckDuckGo   = "duckduckgo"
	SourceBing         = "bing_search"
	SourceWebsiteMeta  = "website_meta"
	SourceWebPresence  = "web_presence"
	SourceGoogleSearch = "google_custom_search"
)

// Labels of the evidence built from artifacts and CRM data.
const (
	LabelCompany         = "company"
	LabelProspect        = "prospect"
	LabelCompanyResearch = "company_research"
	LabelPersonResearch  = "person_research"
	LabelHistory         = "communication_history"
	LabelDocument        = "uploaded_document"
	LabelReport          = "sales_report"
	LabelCommSummary     = "communication_summary"
	LabelSimilarDeal     = "similar_deal"
	LabelClientContext   = "client_context"
	LabelEmailBody       = "email_body"
)

const researchSystem = "You are a helpful sales research assistant."

// CompanySummaryTask asks for a ~500 word briefing on the company.
var CompanySummaryTask = Task{
	Name:        "company_summary",
	System:      researchSystem,
	MaxTokens:   1000,
	Temperature: 0.2,
	Render: func(bag EvidenceBag) (string, error) {
		return fmt.Sprintf(`Can you please use the outputs from Wikipedia, NewsAPI, Google News RSS, DuckDuckGo, Bing Search, and the company website below and summarize this into a 500 word, natural language summary which clearly outlines what the company does, why they do it, where they are based and their values. Anything that would be helpful to know for a sales rep to interact with someone from this company.

Break it into key areas like:
- Overview
- Products & Services
- Team
- Recent News or Blogs
- Web Presence
- Other relevant sections if available

Write your response as a natural language summary that will be read by a sales rep in preparation for a call. Do NOT output JSON.

----
WIKIPEDIA:
%s

NEWSAPI:
%s

GOOGLE NEWS RSS:
%s

DUCKDUCKGO:
%s

BING SEARCH:
%s

WEBSITE META TAGS:
%s

WEB PRESENCE:
%s
`,
			bag.Text(SourceWikipedia), bag.Text(SourceNewsAPI), bag.Text(SourceGoogleNews),
			bag.Text(SourceDuckDuckGo), bag.Text(SourceBing), bag.Text(SourceWebsiteMeta),
			bag.Text(SourceWebPresence)), nil
	},
}

// PersonSummaryTask asks for a ~300 word resume-style profile.
var PersonSummaryTask = Task{
	Name:        "person_summary",
	System:      researchSystem,
	MaxTokens:   600,
	Temperature: 0.2,
	Render: func(bag EvidenceBag) (string, error) {
		return fmt.Sprintf(`Can you please take this LinkedIn profile information and summarize this into a 300 word summary with details on the person's background, key career experience, current role and duration in role. This is a summary for a sales rep to prepare for a sales communication, so make sure all the relevant details are there for this purpose.
Make it read like a resume, with Name, location, follower count, current company and position all listed one after the other at the top, before you break into an overview section and then experience, news/posts etc.

Here is the data:
GOOGLE CUSTOM SEARCH:
%s

BING SEARCH:
%s

DUCKDUCKGO:
%s

GOOGLE NEWS RSS:
%s
`,
			bag.Text(SourceGoogleSearch), bag.Text(SourceBing),
			bag.Text(SourceDuckDuckGo), bag.Text(SourceGoogleNews)), nil
	},
}

var CommunicationSummaryTask = Task{
	Name:        "communication_summary",
	System:      "You are a helpful sales assistant summarizing prior interactions with a prospect.",
	MaxTokens:   600,
	Temperature: 0.3,
	Render: func(bag EvidenceBag) (string, error) {
		doc := bag.Text(LabelDocument)
		if doc == "" {
			doc = "(no document uploaded)"
		}
		return fmt.Sprintf(`Summarize the communication history below for a sales rep who is about to contact %s at %s.
Cover: what has been discussed so far, open questions or objections, the preferred contact method and timezone, and the most sensible next step. Keep it under 250 words and do NOT output JSON.

CRM COMMUNICATION HISTORY:
%s

UPLOADED DOCUMENT:
%s
`,
			bag.Text(LabelProspect), bag.Text(LabelCompany), bag.Text(LabelHistory), doc), nil
	},
}

var SalesReportTask = Task{
	Name:        "sales_report",
	System:      researchSystem,
	MaxTokens:   1200,
	Temperature: 0.3,
	Render: func(bag EvidenceBag) (string, error) {
		return fmt.Sprintf(`Using the company research, the prospect profile and the communication history below, write a sales preparation report for a call with %s at %s.

Structure it as:
- Company Snapshot
- Prospect Snapshot
- Relationship So Far
- Likely Pain Points
- Talking Points
- Recommended Next Steps

COMPANY RESEARCH:
%s

PROSPECT PROFILE:
%s

COMMUNICATION HISTORY:
%s
`,
			bag.Text(LabelProspect), bag.Text(LabelCompany), bag.Text(LabelCompanyResearch),
			bag.Text(LabelPersonResearch), bag.Text(LabelHistory)), nil
	},
}

// EmailDraftTask produces "Subject: ..." followed by a blank line and the
// body. The fallback keeps that layout so the draft can still be split.
var EmailDraftTask = Task{
	Name:        "email_draft",
	System:      "You are an expert sales copywriter specializing in personalized B2B outreach messages.",
	MaxTokens:   1000,
	Temperature: 0.7,
	Render: func(bag EvidenceBag) (string, error) {
		return fmt.Sprintf(`# Role
You are an expert sales copywriter writing a personalized B2B outreach email.

# Task
Generate a personalized sales outreach message for %s at %s based on the sales preparation report, communication summary, recent similar deal, and the client context provided. Reference prior communications and propose clear next steps.

# Input Data
---
SALES PREPARATION REPORT:
%s

---
COMMUNICATION SUMMARY:
%s

---
RECENT SIMILAR DEAL:
%s

---
CLIENT CONTEXT (do NOT mention directly):
%s

# Requirements
- Subject line that captures attention
- Conversational introduction that establishes rapport
- Reference the recent similar deal to build credibility
- Clear call to action and next steps
- Professional yet conversational, 150-200 words

# Output Format
Start with "Subject: <subject>", then a blank line, then the body and signature.
`,
			bag.Text(LabelProspect), bag.Text(LabelCompany), bag.Text(LabelReport),
			bag.Text(LabelCommSummary), bag.Text(LabelSimilarDeal), bag.Text(LabelClientContext)), nil
	},
	Fallback: func(bag EvidenceBag) string {
		subject := "Following up"
		if company := bag.Text(LabelCompany); company != "" {
			subject = "Following up with " + company
		}
		return FormatEmailDraft(subject, ConcatenateEvidence(bag))
	},
}

// DefaultNextAction is used when no provider is configured.
const DefaultNextAction = "send_email"

var NextActionTask = Task{
	Name:        "next_action",
	System:      "You are a helpful assistant.",
	MaxTokens:   20,
	Temperature: 0,
	Render: func(bag EvidenceBag) (string, error) {
		return fmt.Sprintf("Given the following email, what is the next action for the sales rep? (send_email, schedule_meeting, follow_up, etc.)\nEmail:\n%s\nAction:(return only the action label (e.g. send_email, schedule_meeting, follow_up, etc.))",
			bag.Text(LabelEmailBody)), nil
	},
	Fallback: func(EvidenceBag) string { return DefaultNextAction },
}

// FormatEmailDraft writes the message artifact layout.
func FormatEmailDraft(subject, body string) string {
	return "Subject: " + subject + "\n\n" + body
}

// SplitEmailDraft splits generated text on the first blank line. Without a
// blank line the whole text is used as the body.
func SplitEmailDraft(text string) (subject, body string) {
	parts := strings.SplitN(text, "\n\n", 2)
	subject = strings.TrimSpace(strings.Replace(parts[0], "Subject:", "", 1))
	if len(parts) > 1 {
		return subject, parts[1]
	}
	return subject, text
}

// ParseMessageArtifact reads a stored draft: first line subject, the rest
// is the body.
func ParseMessageArtifact(content string) (subject, body string) {
	lines := strings.SplitN(content, "\n", 2)
	subject = strings.TrimSpace(strings.Replace(lines[0], "Subject:", "", 1))
	if len(lines) > 1 {
		body = strings.TrimSpace(lines[1])
	}
	return subject, body
}
