package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rafaelsouza280292/consulta-cnpj/internal/cnpj"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/config"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/export"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/presentation"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/registry"
)

var (
	lookupCardPath string
	lookupXLSXPath string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <cnpj>",
	Short: "Consulta um CNPJ e imprime o resultado como JSON",
	Long: `Consulta um CNPJ sem abrir a interface e imprime as seções do
resultado como JSON no stdout. Avisos de limite de requisições vão para o
stderr enquanto a consulta aguarda.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().StringVar(&lookupCardPath, "card", "",
		"também grava o cartão em texto no caminho informado")
	lookupCmd.Flags().StringVar(&lookupXLSXPath, "xlsx", "",
		"também grava a planilha xlsx no caminho informado")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cleanupLog, err := initLogging()
	if err != nil {
		return fmt.Errorf("initializing debug log: %w", err)
	}
	defer cleanupLog()

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	code, err := cnpj.Validate(args[0])
	if err != nil {
		return fmt.Errorf("CNPJ inválido. Digite 14 dígitos numéricos.")
	}

	provider, err := newTracingProvider()
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	client := newRegistryClient(provider)
	defer client.Close()

	// Ctrl+C abandons the lookup, including mid-wait on a rate limit.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Surface rate-limit waits on stderr so the JSON on stdout stays clean.
	noticeCh := client.Notices().Subscribe(ctx)
	go func() {
		for event := range noticeCh {
			fmt.Fprintln(os.Stderr, event.Payload.Message)
		}
	}()

	record, err := client.Lookup(ctx, code)
	if err != nil {
		if failure, ok := registry.AsFailure(err); ok {
			return fmt.Errorf("%s", failure.Message)
		}
		return err
	}
	queriedAt := time.Now()

	sections := presentation.FromRecord(code, record)
	if err := presentation.NewFormatter(cmd.OutOrStdout()).FormatSections(sections); err != nil {
		return fmt.Errorf("formatting result: %w", err)
	}

	if lookupCardPath != "" {
		if err := export.WriteCard(lookupCardPath, sections, queriedAt); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Cartão gravado em %s\n", lookupCardPath)
	}
	if lookupXLSXPath != "" {
		if err := export.WriteXLSX(lookupXLSXPath, presentation.Flatten(sections)); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Planilha gravada em %s\n", lookupXLSXPath)
	}

	return nil
}
