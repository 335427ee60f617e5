package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"cora-leaf-be/internal/entity"
	"cora-leaf-be/pkg/governance"
	"cora-leaf-be/pkg/policy"

	"github.com/fatih/color"
)

const (
	exitApproved = 0
	exitRejected = 1
	exitError    = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run evaluates one proposed discount against the catalog and prints the
// verdict. The return value is the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("spine", flag.ContinueOnError)
	fs.SetOutput(stderr)

	customerName := fs.String("customer", "", "customer name (defaults to the first catalog entry)")
	discount := fs.Int("discount", -1, "proposed discount percent, 0-100")
	catalogFile := fs.String("catalog", os.Getenv("CATALOG_FILE"), "catalog YAML file (defaults to the embedded catalog)")
	list := fs.Bool("list", false, "list catalog customers and their resolved limits")

	if err := fs.Parse(args); err != nil {
		return exitError
	}

	errOut := color.New(color.FgRed)

	catalog, err := policy.LoadCatalog(*catalogFile)
	if err != nil {
		errOut.Fprintf(stderr, "catalog: %v\n", err)
		return exitError
	}
	store := policy.NewStore()
	if err := catalog.Seed(store); err != nil {
		errOut.Fprintf(stderr, "catalog: %v\n", err)
		return exitError
	}

	if *list {
		printCatalog(stdout, store)
		return exitApproved
	}

	name := *customerName
	if name == "" {
		name = catalog.First()
	}
	customer, err := store.Get(name)
	if err != nil {
		errOut.Fprintf(stderr, "%v\n", err)
		return exitError
	}

	if *discount < 0 {
		errOut.Fprintln(stderr, "-discount is required")
		fs.Usage()
		return exitError
	}

	decision, err := governance.NewEngine().Evaluate(customer, *discount)
	if err != nil {
		errOut.Fprintf(stderr, "%v\n", err)
		return exitError
	}

	printDecision(stdout, decision)
	if decision.Approved() {
		return exitApproved
	}
	return exitRejected
}

func printDecision(w io.Writer, d *entity.DecisionRecord) {
	label := color.New(color.FgCyan, color.Bold)
	label.Fprintf(w, "%s", d.Customer)
	fmt.Fprintf(w, " (risk %s) proposed %d%%, limit %d%% from %s\n",
		d.RiskTier, d.ProposedDiscountPercent, d.LimitPercent, d.LimitSource)

	if d.Approved() {
		color.New(color.FgGreen, color.Bold).Fprintln(w, "APPROVED")
		fmt.Fprintf(w, "Next: %s\n", d.FollowUpAction)
		return
	}
	color.New(color.FgRed, color.Bold).Fprintln(w, "REJECTED")
	fmt.Fprintf(w, "Next: %s\n", d.EscalationAction)
}

func printCatalog(w io.Writer, store *policy.Store) {
	for _, c := range store.Customers() {
		limit, err := policy.ResolveDiscountLimit(c)
		if err != nil {
			color.New(color.FgYellow).Fprintf(w, "%-20s %v\n", c.Name, err)
			continue
		}
		fmt.Fprintf(w, "%-20s %-8s %3d%% (%s)\n", c.Name, c.RiskTier, limit.Percent, limit.Source)
	}
}
