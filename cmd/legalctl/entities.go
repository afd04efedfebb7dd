package main

import (
	"context" // Cancellation and deadlines

	"legal_practice/internal/wire" // JSON shapes

	"github.com/spf13/cobra" // CLI commands
)

// entityCmd builds "<name> list" and "<name> create" under one parent
func entityCmd(name, short string, list func(ctx context.Context, token string) (any, error), create func(ctx context.Context, token string) (string, error), flags func(cmd *cobra.Command)) *cobra.Command {
	parent := &cobra.Command{
		Use:   name,
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your " + name,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			items, err := list(ctx, tokenFlag)
			if err != nil {
				return err
			}
			return printJSON(items)
		},
	}
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create one of your " + name,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			id, err := create(ctx, tokenFlag)
			if err != nil {
				return err
			}
			return printJSON(map[string]string{"id": id})
		},
	}
	flags(createCmd)
	parent.AddCommand(listCmd, createCmd)
	return parent
}

var (
	caseInput     wire.CaseInput
	clientInput   wire.ClientInput
	documentInput wire.DocumentInput
	taskInput     wire.TaskInput
)

func init() {
	rootCmd.AddCommand(
		entityCmd("cases", "Manage cases",
			func(ctx context.Context, token string) (any, error) { return client.Cases(ctx, token) },
			func(ctx context.Context, token string) (string, error) { return client.CreateCase(ctx, token, caseInput) },
			func(cmd *cobra.Command) {
				f := cmd.Flags()
				f.StringVar(&caseInput.Title, "title", "", "case title")
				f.StringVar(&caseInput.Client, "client", "", "client id")
				f.StringVar(&caseInput.Description, "description", "", "description")
				f.StringVar(&caseInput.CaseNumber, "case-number", "", "court case number")
				f.StringVar(&caseInput.Court, "court", "", "court")
				f.StringVar(&caseInput.Status, "status", "", "active, pending, closed, won or lost")
				f.StringVar(&caseInput.FilingDate, "filing-date", "", "filing date, YYYY-MM-DD or RFC 3339")
				f.StringVar(&caseInput.HearingDate, "hearing-date", "", "hearing date, YYYY-MM-DD or RFC 3339")
				_ = cmd.MarkFlagRequired("title")
				_ = cmd.MarkFlagRequired("client")
			}),
		entityCmd("clients", "Manage clients",
			func(ctx context.Context, token string) (any, error) { return client.Clients(ctx, token) },
			func(ctx context.Context, token string) (string, error) {
				return client.CreateClient(ctx, token, clientInput)
			},
			func(cmd *cobra.Command) {
				f := cmd.Flags()
				f.StringVar(&clientInput.Name, "name", "", "client name")
				f.StringVar(&clientInput.Email, "email", "", "email")
				f.StringVar(&clientInput.Phone, "phone", "", "phone")
				f.StringVar(&clientInput.Company, "company", "", "company")
				_ = cmd.MarkFlagRequired("name")
			}),
		entityCmd("documents", "Manage documents",
			func(ctx context.Context, token string) (any, error) { return client.Documents(ctx, token) },
			func(ctx context.Context, token string) (string, error) {
				return client.CreateDocument(ctx, token, documentInput)
			},
			func(cmd *cobra.Command) {
				f := cmd.Flags()
				f.StringVar(&documentInput.Title, "title", "", "document title")
				f.StringVar(&documentInput.FileURL, "url", "", "file URL")
				f.StringVar(&documentInput.FileType, "type", "", "MIME type")
				f.StringVar(&documentInput.CaseID, "case", "", "case id")
				f.StringVar(&documentInput.ClientID, "client", "", "client id")
				f.StringSliceVar(&documentInput.Tags, "tag", nil, "tag, repeatable")
			}),
		entityCmd("tasks", "Manage tasks",
			func(ctx context.Context, token string) (any, error) { return client.Tasks(ctx, token) },
			func(ctx context.Context, token string) (string, error) { return client.CreateTask(ctx, token, taskInput) },
			func(cmd *cobra.Command) {
				f := cmd.Flags()
				f.StringVar(&taskInput.Title, "title", "", "task title")
				f.StringVar(&taskInput.Description, "description", "", "description")
				f.StringVar(&taskInput.Status, "status", "", "pending, in-progress, completed or cancelled")
				f.StringVar(&taskInput.Priority, "priority", "", "low, medium, high or urgent")
				f.StringVar(&taskInput.DueDate, "due", "", "due date, YYYY-MM-DD or RFC 3339")
				f.StringVar(&taskInput.CaseID, "case", "", "case id")
				f.StringVar(&taskInput.ClientID, "client", "", "client id")
				_ = cmd.MarkFlagRequired("title")
			}),
	)
}
