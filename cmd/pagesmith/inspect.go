package main

import (
	"fmt"

	"github.com/fwojciec/pagesmith"
	"github.com/fwojciec/pagesmith/rewrite"
)

// Run executes the inspect command.
func (c *InspectCmd) Run(deps *Dependencies) error {
	tmpl, err := loadTemplateFile(deps.Loader, c.Template)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagesmith.ErrorMessage(err))
		return err
	}

	ext, err := deps.Extractor.Extract(tmpl.HTML, pagesmith.ExtractOptions{CTALink: c.CTALink})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagesmith.ErrorMessage(err))
		return err
	}

	rewrite.AssignIDs(ext.Groups)
	if out := pagesmith.FormatGroups(ext.Groups); out != "" {
		fmt.Fprintln(deps.Stdout, out)
	}

	var long int
	for _, g := range ext.Groups {
		if rewrite.IsLong(g) {
			long++
		}
	}
	fmt.Fprintf(deps.Stdout, "\n%s: %d fields (%d long, %d short), %d CTA links\n",
		tmpl.EntryPath, len(ext.Groups), long, len(ext.Groups)-long, ext.CTARewrites)
	return nil
}
