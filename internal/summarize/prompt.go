// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/trend-report/pkg/types"
)

// noAbstractPlaceholder stands in for records without a usable summary
// (news items in particular) when the policy keeps them in the prompt.
const noAbstractPlaceholder = "(no abstract available)"

// reportPromptTmpl is the prompt sent to the model API. It asks for a
// trend report over the collected titles and abstracts, structured into
// fixed sections so the output is comparable week to week.
var reportPromptTmpl = template.Must(template.New("report").Parse(`You are a domain expert writing a periodic technology trend report.
Below are titles and abstracts of papers and articles published recently, matching the keywords: {{.Keywords}}.

Write a trend report based on this material, organized into exactly three sections:

1. **Key trends**: what techniques or issues do these items collectively focus on?
2. **Notable results**: pick one or two items reporting concrete numbers (yield gains, cost reductions) and summarize them.
3. **Practical applicability**: are there ideas here worth piloting in a production setting?

Base every statement on the material below; do not invent findings.

[Collected material]
{{.Material}}
`))

// BuildPrompt renders the report prompt from the records. Records without
// a summary are either skipped or carried with a placeholder, per the
// includeNoAbstract policy. Returns the empty string when no record
// contributes material.
func BuildPrompt(keywords []string, records []types.Record, includeNoAbstract bool) (string, error) {
	var material strings.Builder
	n := 0
	for _, r := range records {
		summary := strings.TrimSpace(r.Summary)
		if summary == "" {
			if !includeNoAbstract {
				continue
			}
			summary = noAbstractPlaceholder
		}
		n++
		fmt.Fprintf(&material, "[%d] %s: %s\n\n", n, r.Title, summary)
	}
	if n == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	err := reportPromptTmpl.Execute(&buf, struct {
		Keywords string
		Material string
	}{
		Keywords: strings.Join(keywords, ", "),
		Material: strings.TrimSpace(material.String()),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
