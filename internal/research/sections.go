// Package research runs deep-research jobs: background workers that build a
// seven-section investigative report on a product via the model API.
package research

import (
	"fmt"
	"strings"

	"github.com/truelabel/truelabel/internal/model"
)

// Section describes one report section: its title, the progress checkpoint
// reported while it is being generated, and the instructions handed to the
// model.
type Section struct {
	Title    string
	Progress int
	Step     string
	Prompt   string
}

// Sections lists the report sections in generation order. The executive
// summary runs last so it can synthesize the other six.
var Sections = []Section{
	{
		Title:    "The Company Behind It",
		Progress: 10,
		Step:     "Researching corporate ownership...",
		Prompt: `Investigate the company behind this product:
- Parent company ownership chain (if any)
- Corporate history and major controversies
- Lobbying activities and political spending (if known)
- Recent lawsuits, settlements, or regulatory actions
- Overall corporate ethics assessment`,
	},
	{
		Title:    "Ingredient Deep Dive",
		Progress: 25,
		Step:     "Analyzing ingredients database...",
		Prompt: `For each concerning ingredient identified:
- Full scientific/chemical name
- What it does in this product (functional purpose)
- Key health research findings (cite studies when possible)
- Regulatory status globally (banned where? allowed where?)
- Why it's allowed in the US despite concerns`,
	},
	{
		Title:    "Supply Chain Investigation",
		Progress: 40,
		Step:     "Investigating supply chain...",
		Prompt: `Investigate the product's supply chain:
- Where key ingredients are likely sourced
- Known suppliers and their practices (if information available)
- Labor condition concerns (if documented)
- Environmental impact of production
- Monoculture vs. sustainable farming assessment`,
	},
	{
		Title:    "Regulatory History",
		Progress: 55,
		Step:     "Checking regulatory history...",
		Prompt: `Investigate the regulatory record:
- FDA warning letters (if any)
- Product recalls (if any)
- FTC advertising complaints or enforcement
- State-level regulatory actions
- Note if no significant regulatory issues found`,
	},
	{
		Title:    "Better Alternatives",
		Progress: 70,
		Step:     "Finding better alternatives...",
		Prompt: `List 3-5 alternative products that:
- Are genuinely healthier (not just marketing)
- Are ethically sourced when possible
- Are reasonably priced and accessible
- Explain WHY each is better`,
	},
	{
		Title:    "Action Items for Consumer",
		Progress: 85,
		Step:     "Generating recommendations...",
		Prompt: `What can the consumer do right now?
- Immediate substitutes they can buy today
- Specific brands to support instead
- How to read labels to avoid similar issues
- Resources for learning more about this topic
- One simple action step they can take`,
	},
	{
		Title:    "Executive Summary",
		Progress: 95,
		Step:     "Preparing comprehensive analysis...",
		Prompt: `Write one concise paragraph: Should this person buy this
product? Why or why not? Be direct and honest.`,
	},
}

// systemPrompt sets the register for every section call.
const systemPrompt = `You are a consumer-protection research agent. Be
direct, honest, and hedge toward consumer protection. Be factual and cite
sources when making claims. If information is not available, say so clearly.
Distinguish between documented facts and reasonable concerns. Avoid
fear-mongering but don't minimize real risks. Give actionable advice, not
just information.`

// userPrompt renders the per-section request message.
func userPrompt(req model.ResearchRequest, sec Section) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Product**: %s\n", req.ProductName)
	if req.Brand != "" {
		fmt.Fprintf(&b, "**Brand**: %s\n", req.Brand)
	}
	if req.Category != "" {
		fmt.Fprintf(&b, "**Category**: %s\n", req.Category)
	}
	if len(req.Ingredients) > 0 {
		fmt.Fprintf(&b, "**Ingredients**: %s\n", strings.Join(req.Ingredients, ", "))
	}
	fmt.Fprintf(&b, "\nGenerate the %q report section.\n\n%s\n", sec.Title, sec.Prompt)
	return b.String()
}

// assembleReport builds the final report from the generated section texts,
// which must be in Sections order.
func assembleReport(req model.ResearchRequest, texts []string) *model.ResearchReport {
	sections := make([]model.ReportSection, len(Sections))
	var full strings.Builder
	for i, sec := range Sections {
		sections[i] = model.ReportSection{Title: sec.Title, Text: texts[i]}
		fmt.Fprintf(&full, "## %s\n\n%s\n\n", sec.Title, strings.TrimSpace(texts[i]))
	}
	return &model.ResearchReport{
		ProductName: req.ProductName,
		Brand:       req.Brand,
		Category:    req.Category,
		Sections:    sections,
		FullReport:  strings.TrimSpace(full.String()),
	}
}
