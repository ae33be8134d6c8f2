package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/lead-copilot/internal/entity"
	"github.com/xavierca1/lead-copilot/internal/usecase"
)

func similarDealsCmd() *cobra.Command {
	var (
		industry string
		dealSize float64
	)
	cmd := &cobra.Command{
		Use:   "similar-deals",
		Short: "Rank past successful deals by industry and size",
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.SimilarDealsInput{Industry: industry}
			if cmd.Flags().Changed("deal-size") {
				input.Criteria.DealSize = &dealSize
			}
			return printJSON(cmd, application.SimilarDeals.FindSimilarDeals(cmd.Context(), input))
		},
	}
	cmd.Flags().StringVar(&industry, "industry", "", "target industry")
	cmd.Flags().Float64Var(&dealSize, "deal-size", 0, "target deal size")
	return cmd
}

func updateLeadCmd() *cobra.Command {
	var input usecase.UpdateLeadInput
	cmd := &cobra.Command{
		Use:   "update-lead <record_id>",
		Short: "Record a sent email or set the next follow-up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.RecordID = args[0]
			return printJSON(cmd, application.UpdateLead.Execute(cmd.Context(), input))
		},
	}
	cmd.Flags().StringVar(&input.EmailMessage, "message", "", "email body that was sent")
	cmd.Flags().StringVar(&input.EmailSentDate, "date", "", "send date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&input.NextFollowUp, "next-follow-up", "", "follow-up date (YYYY-MM-DD)")
	return cmd
}

func researchCompanyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "research-company <company>",
		Short: "Aggregate public information and write the company summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := application.CompanyResearch.Execute(cmd.Context(), usecase.CompanyResearchInput{CompanyName: args[0]})
			return printJSON(cmd, out)
		},
	}
}

func researchPersonCmd() *cobra.Command {
	var input usecase.PersonResearchInput
	cmd := &cobra.Command{
		Use:   "research-person <name>",
		Short: "Aggregate public information and write the prospect summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Name = args[0]
			return printJSON(cmd, application.PersonResearch.Execute(cmd.Context(), input))
		},
	}
	cmd.Flags().StringVar(&input.CompanyName, "company", "", "prospect's company")
	cmd.Flags().StringVar(&input.LinkedInURL, "linkedin", "", "linkedin.com/in/ profile URL")
	return cmd
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <lead_id>",
		Short: "Show a lead's communication history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := application.CommunicationHistory.Execute(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
}

func summaryCmd() *cobra.Command {
	var document string
	cmd := &cobra.Command{
		Use:   "comm-summary <lead_id>",
		Short: "Summarize a lead's communication history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.CommunicationSummaryInput{LeadID: args[0]}
			if document != "" {
				data, err := os.ReadFile(document)
				if err != nil {
					return err
				}
				input.UploadedDocument = string(data)
			}
			return printJSON(cmd, application.CommunicationSummary.Execute(cmd.Context(), input))
		},
	}
	cmd.Flags().StringVar(&document, "document", "", "text file to include (meeting notes, transcript)")
	return cmd
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <lead_id>",
		Short: "Write the sales-prep report from the research artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, application.SalesReport.Execute(cmd.Context(), usecase.SalesReportInput{LeadID: args[0]}))
		},
	}
}

func draftCmd() *cobra.Command {
	var input usecase.DraftMessageInput
	cmd := &cobra.Command{
		Use:   "draft <lead_id>",
		Short: "Draft an outreach email for a lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.LeadID = args[0]
			if input.CompanyName == "" || input.ProspectName == "" {
				lead, err := loadLead(cmd, args[0])
				if err != nil {
					return err
				}
				if input.CompanyName == "" {
					input.CompanyName = lead.CompanyName
				}
				if input.ProspectName == "" {
					input.ProspectName = lead.FullName()
				}
			}
			return printJSON(cmd, application.DraftMessage.Execute(cmd.Context(), input))
		},
	}
	cmd.Flags().StringVar(&input.CompanyName, "company", "", "company name (default: from CRM)")
	cmd.Flags().StringVar(&input.ProspectName, "prospect", "", "prospect name (default: from CRM)")
	return cmd
}

func sendCmd() *cobra.Command {
	var input usecase.MessageActionInput
	cmd := &cobra.Command{
		Use:   "send <lead_id>",
		Short: "Send the drafted email, update the CRM and schedule a meeting if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.LeadID = args[0]
			return printJSON(cmd, application.MessageAction.Execute(cmd.Context(), input))
		},
	}
	cmd.Flags().StringVar(&input.MessageFile, "file", "", "message artifact (default: the lead's draft)")
	return cmd
}

func followupsCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "followups",
		Short: "List leads whose follow-up is due",
		RunE: func(cmd *cobra.Command, _ []string) error {
			today := time.Now()
			if date != "" {
				t, err := time.Parse(entity.DateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
				today = t
			}
			due, err := application.DueFollowUps.Execute(cmd.Context(), today)
			if err != nil {
				return err
			}
			return printJSON(cmd, due)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "reference date (YYYY-MM-DD, default today)")
	return cmd
}

func loadLead(cmd *cobra.Command, id string) (*entity.Lead, error) {
	doc, err := application.Store.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	lead := doc.FindLead(id)
	if lead == nil {
		return nil, fmt.Errorf("lead with id %s not found", id)
	}
	return lead, nil
}
