package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mohammad-safakhou/deepresearch/internal/report"
	"github.com/mohammad-safakhou/deepresearch/internal/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const topicPrompt = "Enter a topic for deep research: "

var errNoTopic = errors.New("no topic given")

func researchCMD(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "research [topic]",
		Short: "Run one research pass and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			topic := strings.TrimSpace(strings.Join(args, " "))
			if topic == "" {
				if topic, err = readTopic(a.in, a.out); err != nil {
					return err
				}
			}
			return a.research(cmd.Context(), topic, f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, markdown, json, yaml")
	return cmd
}

// readTopic prompts on out and reads one line from in.
func readTopic(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, topicPrompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read topic: %w", err)
	}
	topic := strings.TrimSpace(line)
	if topic == "" {
		return "", errNoTopic
	}
	return topic, nil
}

func (a *app) research(ctx context.Context, topic string, format report.Format) error {
	if ctx == nil {
		ctx = context.Background()
	}
	tele, err := telemetry.Setup(ctx, a.cfg.Telemetry, telemetry.Options{
		ServiceName:    "deepresearch",
		ServiceVersion: version,
		Logger:         a.logger,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tele.Shutdown(sctx); err != nil {
			a.logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	p, err := a.newPipeline(a.cfg, a.logger)
	if err != nil {
		return err
	}
	res, err := p.Assembler.Assemble(ctx, topic)
	if err != nil {
		return fmt.Errorf("research %q: %w", topic, err)
	}
	answer := p.Answerer.Answer(ctx, topic, res.FinalSummary)

	w, err := report.NewWriter(format, a.out)
	if err != nil {
		return err
	}
	_, err = w.Write(report.Output{Result: res, Answer: answer})
	return err
}
