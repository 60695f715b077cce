package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"trackify/internal/client"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TRACKIFY")
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:          "trackify",
		Short:        "Look up license plate sightings",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("api-url", "http://localhost:3000", "sighting API base URL (env TRACKIFY_API_URL)")
	root.PersistentFlags().Duration("timeout", 10*time.Second, "request timeout")
	_ = v.BindPFlag("api_url", root.PersistentFlags().Lookup("api-url"))
	_ = v.BindPFlag("timeout", root.PersistentFlags().Lookup("timeout"))

	newSession := func() *client.Session {
		return client.NewSession(client.New(v.GetString("api_url"), v.GetDuration("timeout")))
	}

	root.AddCommand(newSearchCmd(newSession), newMarkersCmd(newSession))
	return root
}

func newSearchCmd(newSession func() *client.Session) *cobra.Command {
	var plate string
	cmd := &cobra.Command{
		Use:   "search",
		Short: "List sightings, optionally for one exact plate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := newSession().Search(cmd.Context(), plate)
			if err != nil {
				return err
			}
			printVehicles(cmd.OutOrStdout(), st)
			return nil
		},
	}
	cmd.Flags().StringVarP(&plate, "plate", "p", "", "exact plate text to match")
	return cmd
}

func newMarkersCmd(newSession func() *client.Session) *cobra.Command {
	var plate string
	cmd := &cobra.Command{
		Use:   "markers",
		Short: "Print decimal map coordinates for sightings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := newSession().Search(cmd.Context(), plate)
			if err != nil {
				return err
			}
			printMarkers(cmd.OutOrStdout(), st)
			return nil
		},
	}
	cmd.Flags().StringVarP(&plate, "plate", "p", "", "exact plate text to match")
	return cmd
}

func printVehicles(out io.Writer, st client.State) {
	if len(st.Vehicles) == 0 {
		fmt.Fprintln(out, "No vehicles found")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLATE\tCAMERA\tLOCATION\tTIME\tSCORE")
	for _, v := range st.Vehicles {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\n",
			v.PlateText, v.CameraID, v.Location, v.Timestamp.Format(time.RFC3339), v.ConfidenceScore)
	}
	_ = tw.Flush()
}

func printMarkers(out io.Writer, st client.State) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLATE\tLAT\tLNG")
	for _, m := range st.Markers {
		fmt.Fprintf(tw, "%s\t%.6f\t%.6f\n", m.Plate, m.Position.Lat, m.Position.Lng)
	}
	_ = tw.Flush()
	for _, s := range st.Skipped {
		fmt.Fprintf(out, "skipped %s: %v\n", s.ID, s.Err)
	}
}
