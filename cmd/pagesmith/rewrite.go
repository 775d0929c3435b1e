package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/pagesmith"
)

// Run executes the rewrite command.
func (c *RewriteCmd) Run(deps *Dependencies) error {
	tmpl, err := loadTemplateFile(deps.Loader, c.Template)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagesmith.ErrorMessage(err))
		return err
	}

	brief := pagesmith.Brief{
		UserInput:   c.Brief,
		CompanyName: c.Company,
		CTALink:     c.CTALink,
		Tone:        c.Tone,
		Location:    c.Location,
		Humanize:    c.Humanize,
	}

	out, stats, err := deps.Rewriter.RewriteTemplate(deps.Ctx, tmpl, brief)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagesmith.ErrorMessage(err))
		return err
	}

	if err := os.WriteFile(c.Output, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.Output, err)
	}

	fmt.Fprintf(deps.Stdout, "Wrote %s\n", c.Output)
	if stats != nil {
		fmt.Fprintf(deps.Stdout, "  %d fields, %d generation calls (%d retries), %d fallbacks\n",
			stats.Groups, stats.Calls, stats.Retries, stats.Fallbacks)
		if stats.HumanizeAttempts > 0 {
			fmt.Fprintf(deps.Stdout, "  humanized %d of %d\n", stats.Humanized, stats.HumanizeAttempts)
		}
		if len(stats.Flagged) > 0 {
			fmt.Fprintf(deps.Stdout, "  length outliers: %v\n", stats.Flagged)
		}
	}
	return nil
}
