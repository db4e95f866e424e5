// Command drimon drives the DRI protocol engine against a recorded raw
// frame log or prints the wire bytes for a startup request, without
// owning any serial-port I/O of its own: hardware transport is left to
// whatever captured the raw frame log in the first place.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ge-dri/go-dri"
	"github.com/ge-dri/go-dri/config"
	"github.com/ge-dri/go-dri/logsink"
	"github.com/ge-dri/go-dri/storage/csvwriter"
	"github.com/ge-dri/go-dri/storage/jsonwriter"
	"github.com/ge-dri/go-dri/storage/rawwriter"
)

func main() {
	root := &cobra.Command{
		Use:   "drimon",
		Short: "Decode and replay DRI monitor frame logs",
	}
	root.AddCommand(newRecordCmd(), newRequestCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRecordCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Replay a raw frame log through the decoder, writing CSV and/or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runRecord(cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "session config YAML path")
	cmd.MarkFlagRequired("config")
	return cmd
}

func runRecord(cfg *config.Session) error {
	sink := logsink.New(nil, nil)

	reader, err := rawwriter.Open(cfg.Output.RawFrameLog)
	if err != nil {
		return err
	}
	defer reader.Close()

	var csvOut *csvwriter.Writer
	if cfg.Output.CSVPath != "" {
		f, err := os.Create(cfg.Output.CSVPath)
		if err != nil {
			return err
		}
		defer f.Close()
		csvOut = csvwriter.New(f)
	}

	var jsonOut *jsonwriter.Writer
	if cfg.Output.JSONPath != "" {
		f, err := os.Create(cfg.Output.JSONPath)
		if err != nil {
			return err
		}
		defer f.Close()
		jsonOut = jsonwriter.New(f)
	}

	orch := dri.NewOrchestrator(sink)
	source := rawwriter.AsByteSource(reader)

	for {
		rec, err := orch.Next(source)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			sink.Warnf("drimon: decode error: %v", err)
			continue
		}
		if rec == nil {
			continue
		}
		if csvOut != nil {
			if err := csvOut.WriteRecord(rec); err != nil {
				return err
			}
		}
		if jsonOut != nil {
			if err := jsonOut.WriteRecord(rec); err != nil {
				return err
			}
		}
	}
}

func newRequestCmd() *cobra.Command {
	var (
		kind     string
		interval uint16
		waves    []string
	)
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Print the wire bytes for a startup request",
		RunE: func(cmd *cobra.Command, args []string) error {
			var frame []byte
			switch kind {
			case "displayed":
				frame = dri.BuildDisplayedValuesRequest(interval, dri.PhdbclReqAll)
			case "trend60s":
				frame = dri.BuildTrend60sRequest(interval, dri.PhdbclReqAll)
			case "waveform":
				types, err := waveformTypes(waves)
				if err != nil {
					return err
				}
				frame, err = dri.BuildWaveformRequest(types, 0)
				if err != nil {
					return err
				}
			case "stop-all":
				for _, f := range dri.BuildStopAll() {
					fmt.Printf("% X\n", f)
				}
				return nil
			default:
				return fmt.Errorf("drimon: unknown request kind %q", kind)
			}
			fmt.Printf("% X\n", frame)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "displayed", "displayed|trend60s|waveform|stop-all")
	cmd.Flags().Uint16Var(&interval, "interval", 5, "request interval in seconds")
	cmd.Flags().StringSliceVar(&waves, "waveform", nil, "waveform type name, repeatable (e.g. ecg1, pleth)")
	return cmd
}

func waveformTypes(names []string) ([]dri.WaveformType, error) {
	out := make([]dri.WaveformType, 0, len(names))
	for _, name := range names {
		t, ok := dri.WaveformTypeByName(name)
		if !ok {
			return nil, fmt.Errorf("drimon: unknown waveform type %q", name)
		}
		out = append(out, t)
	}
	return out, nil
}
