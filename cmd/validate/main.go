// Command validate checks the structural integrity of a generated advisory
// document: the pagination sentinels, the fixed section inventory, and the
// placeholder handling. Useful after changing the renderer or the seed
// dataset.
//
// Usage:
//
//	curl -s -X POST localhost:8080/api/reports/generate-report \
//	  -d '{"year":2024,"month":"October","day":9,"district":"Puttalam"}' \
//	  > report.html
//	go run ./cmd/validate -report report.html -expect-substituted=false
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/agromet/advisory-report-service/internal/report"
)

// sectionCount is the fixed number of content sections per document; the
// introduction block makes it one more.
const sectionCount = 13

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	reportPath := flag.String("report", "", "path to a generated report HTML file")
	expectSubstituted := flag.Bool("expect-substituted", false,
		"fail if the observed-precipitation placeholder is still present")
	flag.Parse()

	if *reportPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	html, err := os.ReadFile(*reportPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read report: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(string(html), *expectSubstituted))
}

func run(html string, expectSubstituted bool) int {
	fmt.Println("=== Advisory Report Validation ===")
	fmt.Println()

	phases := []*phase{
		checkShell(html),
		checkPagination(html),
		checkSections(html),
		checkPlaceholder(html, expectSubstituted),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL  %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("      - %s\n", e)
		}
	}

	fmt.Println()
	if failed > 0 {
		fmt.Printf("%d of %d phases failed\n", failed, len(phases))
		return 1
	}
	fmt.Printf("all %d phases passed\n", len(phases))
	return 0
}

func checkShell(html string) *phase {
	p := &phase{name: "document shell"}
	if !strings.HasPrefix(html, "<html>") {
		p.errorf("document does not start with <html>")
	}
	if !strings.Contains(html, "<title>Environment Data Report</title>") {
		p.errorf("document title missing")
	}
	if !strings.Contains(html, "</body>") || !strings.Contains(html, "</html>") {
		p.errorf("document is truncated")
	}
	return p
}

func checkPagination(html string) *phase {
	p := &phase{name: "pagination sentinels"}
	want := sectionCount + 1 // introduction included
	if got := strings.Count(html, report.PageBreakSentinel); got != want {
		p.errorf("expected %d page-break sentinels, found %d", want, got)
	}
	return p
}

func checkSections(html string) *phase {
	p := &phase{name: "section inventory"}

	if !strings.Contains(html, "<h1>District Agro-met Advisory Co-production</h1>") {
		p.errorf("introduction heading missing")
	}
	// One h2 per section plus the district line in the introduction.
	if got := strings.Count(html, "<h2>"); got != sectionCount+1 {
		p.errorf("expected %d <h2> headings, found %d", sectionCount+1, got)
	}

	required := map[string]int{
		"Seasonal Rainfall Forecast":          1,
		"Rainfall Forecast":                   4, // the seasonal title contains it too
		"Weekly Rainfall":                     4,
		"Received Rainfall":                   1,
		"General Climatological Rainfall":     1,
		"Major Reservoir Water Availability":  1,
		"Medium Reservoir Water Availability": 1,
		"Minor Tank Water Availability":       1,
	}
	for title, want := range required {
		if got := strings.Count(html, title); got != want {
			p.errorf("title %q: expected %d occurrence(s), found %d", title, want, got)
		}
	}
	return p
}

func checkPlaceholder(html string, expectSubstituted bool) *phase {
	p := &phase{name: "placeholder handling"}
	if strings.Contains(html, "ZgotmplZ") {
		p.errorf("template sanitization stripped a URL")
	}
	if expectSubstituted && strings.Contains(html, "OBSERVED_PRECIPITATION") {
		p.errorf("observed-precipitation placeholder was not substituted")
	}
	return p
}
