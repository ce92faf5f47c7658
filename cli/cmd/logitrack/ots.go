package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/logitrack/clients/pkg/otclient"
)

func otsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ots",
		Short: "Work with order transports",
	}
	cmd.AddCommand(
		otsListCmd(),
		otsShowCmd(),
		otsCreateCmd(),
		otsStatusCmd(),
		otsFinishCmd(),
		otsTransferCmd(),
	)
	return cmd
}

// authedApp builds the app and enforces the signed-in guard shared by
// every ots subcommand.
func authedApp() (*app, context.Context, error) {
	a, ctx, err := newApp()
	if err != nil {
		return nil, nil, err
	}
	if err := a.requireAuth(); err != nil {
		return nil, nil, err
	}
	a.ctrl.Initialize(ctx)
	return a, ctx, nil
}

func parseOTID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid OT id %q", arg)
	}
	return id, nil
}

func otsListCmd() *cobra.Command {
	var filter otclient.ListFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List order transports",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := authedApp()
			if err != nil {
				return err
			}
			res := a.ots.List(ctx, filter)
			if !res.Success {
				return resultErr(res.Message, res.Errors)
			}

			page := res.Data
			if len(page.Results) == 0 {
				fmt.Println("No order transports found.")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNUMERO\tCLIENTE\tCIDADE\tSTATUS\tMOTORISTA")
			for _, ot := range page.Results {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					ot.ID, ot.NumeroOT, ot.ClienteNome, ot.CidadeEntrega, ot.Status, ot.MotoristaAtual.FullName)
			}
			w.Flush()
			fmt.Printf("%d of %d\n", len(page.Results), page.Count)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Status, "status", "", "filter by status (INICIADA, EM_CARREGAMENTO, EM_TRANSITO, ENTREGUE, ENTREGUE_PARCIAL, CANCELADA)")
	cmd.Flags().StringVar(&filter.Search, "search", "", "search by number, client or city")
	cmd.Flags().IntVar(&filter.Page, "page", 1, "result page")
	return cmd
}

func otsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one order transport",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseOTID(args[0])
			if err != nil {
				return err
			}
			a, ctx, err := authedApp()
			if err != nil {
				return err
			}
			res := a.ots.Get(ctx, id)
			if !res.Success {
				return resultErr(res.Message, res.Errors)
			}
			printOT(res.Data)
			return nil
		},
	}
}

func printOT(ot *otclient.OT) {
	fmt.Printf("%s  [%s]\n", ot.NumeroOT, ot.Status)
	if ot.ClienteNome != "" {
		fmt.Printf("cliente:   %s\n", ot.ClienteNome)
	}
	fmt.Printf("entrega:   %s, %s\n", ot.EnderecoEntrega, ot.CidadeEntrega)
	if ot.EnderecoOrigem != "" {
		fmt.Printf("origem:    %s\n", ot.EnderecoOrigem)
	}
	fmt.Printf("motorista: %s\n", ot.MotoristaAtual.FullName)
	if ot.MotoristaCriador.ID != ot.MotoristaAtual.ID {
		fmt.Printf("criador:   %s\n", ot.MotoristaCriador.FullName)
	}
	fmt.Printf("criada:    %s\n", ot.DataCriacao)
	if ot.DataFinalizacao != "" {
		fmt.Printf("finalizada: %s\n", ot.DataFinalizacao)
	}
	if ot.Observacoes != "" {
		fmt.Printf("obs:       %s\n", ot.Observacoes)
	}
}

func otsCreateCmd() *cobra.Command {
	var req otclient.CreateRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an order transport",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := authedApp()
			if err != nil {
				return err
			}
			res := a.ots.Create(ctx, req)
			if !res.Success {
				return resultErr(res.Message, res.Errors)
			}
			fmt.Printf("Created %s (id %d).\n", res.Data.NumeroOT, res.Data.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.ClienteNome, "cliente", "", "client name")
	cmd.Flags().StringVar(&req.EnderecoEntrega, "endereco", "", "delivery address")
	cmd.Flags().StringVar(&req.CidadeEntrega, "cidade", "", "delivery city")
	cmd.Flags().StringVar(&req.Observacoes, "obs", "", "notes")
	_ = cmd.MarkFlagRequired("endereco")
	_ = cmd.MarkFlagRequired("cidade")
	return cmd
}

func otsStatusCmd() *cobra.Command {
	var upd otclient.StatusUpdate

	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move an order transport to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseOTID(args[0])
			if err != nil {
				return err
			}
			upd.Status = args[1]
			a, ctx, err := authedApp()
			if err != nil {
				return err
			}
			res := a.ots.UpdateStatus(ctx, id, upd)
			if !res.Success {
				return resultErr(res.Message, res.Errors)
			}
			fmt.Printf("%s is now %s.\n", res.Data.NumeroOT, res.Data.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&upd.Observacao, "obs", "", "note for the status change")
	return cmd
}

func otsFinishCmd() *cobra.Command {
	var upd otclient.StatusUpdate
	var partial bool

	cmd := &cobra.Command{
		Use:   "finish <id>",
		Short: "Finalize an order transport as delivered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseOTID(args[0])
			if err != nil {
				return err
			}
			upd.Status = otclient.StatusEntregue
			if partial {
				upd.Status = otclient.StatusEntregueParcial
			}
			a, ctx, err := authedApp()
			if err != nil {
				return err
			}
			res := a.ots.Finish(ctx, id, upd)
			if !res.Success {
				return resultErr(res.Message, res.Errors)
			}
			fmt.Printf("%s finalized as %s.\n", res.Data.NumeroOT, res.Data.Status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&partial, "partial", false, "finalize as partially delivered")
	cmd.Flags().StringVar(&upd.Observacao, "obs", "", "delivery note")
	return cmd
}

func otsTransferCmd() *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "transfer <id> <driver-id>",
		Short: "Hand an order transport to another driver",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseOTID(args[0])
			if err != nil {
				return err
			}
			driverID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || driverID <= 0 {
				return fmt.Errorf("invalid driver id %q", args[1])
			}
			a, ctx, err := authedApp()
			if err != nil {
				return err
			}
			res := a.ots.Transfer(ctx, id, driverID, note)
			if !res.Success {
				return resultErr(res.Message, res.Errors)
			}
			fmt.Println("Transfer requested.")
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "obs", "", "note for the transfer")
	return cmd
}
