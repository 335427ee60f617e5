package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"cora-leaf-be/internal/constant"
	"cora-leaf-be/pkg/events"
	pktNats "cora-leaf-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// audittail follows the governance stream and prints each decision and
// dispatch as it is archived.
func main() {
	_ = godotenv.Load()

	url := flag.String("nats", os.Getenv("NATS_URL"), "NATS server URL")
	durable := flag.String("durable", "audittail", "durable consumer name")
	flag.Parse()

	if *url == "" {
		log.Fatal("NATS URL is required (-nats or NATS_URL)")
	}

	sub, err := pktNats.NewSubscriber(*url)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sub.Subscribe(ctx, pktNats.SubjectPrefix+">", *durable, func(ctx context.Context, event events.BaseEvent) error {
		printEvent(os.Stdout, event)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	color.Cyan("Following %s on %s", pktNats.StreamName, *url)
	<-ctx.Done()
}

func printEvent(w io.Writer, event events.BaseEvent) {
	stamp := event.OccurredAt.Format("15:04:05")

	switch event.Type {
	case constant.EventDecisionRecorded:
		outcome := fmt.Sprint(event.Data["outcome"])
		paint := color.New(color.FgRed, color.Bold)
		if outcome == "Approved" {
			paint = color.New(color.FgGreen, color.Bold)
		}
		fmt.Fprintf(w, "%s ", stamp)
		paint.Fprintf(w, "%-8s", outcome)
		fmt.Fprintf(w, " %v %v%% (limit %v%%) session %s\n",
			event.Data["customer"], event.Data["proposed_discount_percent"], event.Data["limit_percent"], event.SessionId)

	case constant.EventEmailDispatched:
		fmt.Fprintf(w, "%s ", stamp)
		color.New(color.FgBlue, color.Bold).Fprintf(w, "%-8s", "EMAIL")
		fmt.Fprintf(w, " %v <%v> %q session %s\n",
			event.Data["recipient_customer"], event.Data["recipient_email_address"], event.Data["subject"], event.SessionId)

	default:
		keys := make([]string, 0, len(event.Data))
		for k := range event.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(w, "%s ", stamp)
		color.New(color.FgYellow).Fprintf(w, "%-8s", event.Type)
		fmt.Fprintf(w, " fields %v session %s\n", keys, event.SessionId)
	}
}
