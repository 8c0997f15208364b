package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gamma-cli/internal/domain"
	"gamma-cli/internal/service"
)

const rule = "============================================================"

// progressLine formats one poll observation.
func progressLine(o service.Observation) string {
	return fmt.Sprintf("Status: %s (elapsed: %ds)", displayTag(o.RawTag), int(o.Elapsed.Seconds()))
}

func displayTag(raw string) string {
	if raw == "" {
		return "<missing>"
	}
	return raw
}

// renderResult prints the locations and credit usage of a completed
// generation.
func renderResult(w io.Writer, s domain.JobStatus) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "✅ Generation complete!")
	fmt.Fprintf(w, "View in Gamma: %s\n", s.GammaURL)
	if s.PDFURL != "" {
		fmt.Fprintf(w, "PDF: %s\n", s.PDFURL)
	}
	if s.PPTXURL != "" {
		fmt.Fprintf(w, "PPTX: %s\n", s.PPTXURL)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Credits used: %s\n", formatCredit(s.Credits.Deducted))
	fmt.Fprintf(w, "Credits remaining: %s\n", formatCredit(s.Credits.Remaining))
}

func formatCredit(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// renderResources prints a themes or folders listing.
func renderResources(w io.Writer, kind domain.ResourceKind, records []domain.ResourceRecord) {
	icon, title := "📁", "Available Folders"
	if kind == domain.ResourceThemes {
		icon, title = "📐", "Available Themes"
	}
	fmt.Fprintf(w, "\n%s %s\n", icon, title)
	fmt.Fprintln(w, rule)
	for _, r := range records {
		name := r.Name
		if strings.TrimSpace(name) == "" {
			name = "Unnamed"
		}
		id := r.ID
		if id == "" {
			id = "N/A"
		}
		marker := ""
		if r.IsDefault {
			marker = " [DEFAULT]"
		}
		fmt.Fprintf(w, "• %s (ID: %s)%s\n", name, id, marker)
		if kind == domain.ResourceThemes && r.Colors != nil {
			fmt.Fprintf(w, "  Colors: Primary=%s, Background=%s\n", colorValue(r.Colors, "primary"), colorValue(r.Colors, "background"))
		}
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total: %d %s\n\n", len(records), kind)
}

func colorValue(colors map[string]any, key string) string {
	v, ok := colors[key]
	if !ok || v == nil {
		return "N/A"
	}
	return fmt.Sprint(v)
}
