package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"chundiet-web/internal/recommendations"
	"chundiet-web/internal/view"
)

func main() {
	inPath := flag.String("in", "", "recommendation payload JSON (defaults to a built-in sample)")
	outPath := flag.String("out", "./out/recommendations.html", "output path for rendered HTML")
	generated := flag.Bool("generated", false, "render as a fresh generation (empty shows the not-enough-data state)")
	flag.Parse()

	raw := []byte(samplePayload)
	if *inPath != "" {
		data, err := os.ReadFile(*inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read failed: %v\n", err)
			os.Exit(1)
		}
		raw = data
	}

	vm := recommendations.NormalizeJSON(raw)
	render := view.Recommendations
	if *generated {
		render = view.GeneratedRecommendations
	}
	node, err := render(vm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render failed: %v\n", err)
		os.Exit(1)
	}
	markup, err := view.HTML(node)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render failed: %v\n", err)
		os.Exit(1)
	}

	if err := writeOutputs(*outPath, vm, markup); err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}

	sections, err := validateRendered(markup)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OK: wrote %s (%s, %d sections)\n", *outPath, vm.Kind(), sections)
}

// writeOutputs stores the HTML and, next to it, the normalized view-model.
func writeOutputs(outPath string, vm recommendations.ViewModel, markup string) error {
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, []byte(markup), 0o644); err != nil {
		return err
	}

	modelPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + "_model.json"
	payload, err := json.MarshalIndent(map[string]any{"kind": vm.Kind(), "model": vm}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(modelPath, payload, 0o644)
}

// validateRendered parses the output back and counts the rendered sections.
func validateRendered(markup string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(doc.Text()) == "" {
		return 0, fmt.Errorf("rendered output has no text")
	}
	if doc.Find("script").Length() > 0 {
		return 0, fmt.Errorf("rendered output contains a script element")
	}
	return doc.Find("h3").Length(), nil
}

const samplePayload = `{
  "overall_assessment": "Protein intake is steady; fiber is low on most days.",
  "weekly_goal": "Add a vegetable to two meals a day",
  "nutritional_analysis": {
    "calorie_analysis": "Averaging 1,850 kcal against a 2,000 kcal goal.",
    "macronutrient_balance": "Carbs 48%, protein 22%, fat 30%.",
    "deficiencies": ["Fiber", "Vitamin D"],
    "strengths": ["Consistent breakfast"]
  },
  "food_recommendations": [
    {
      "food_name": "Lentil soup",
      "meal_type": "lunch",
      "benefits": "High in fiber and plant protein",
      "nutrients_provided": ["Fiber", "Iron"],
      "preparation_tip": "Batch cook on Sunday"
    }
  ],
  "next_day_plan": {
    "breakfast": {"suggestion": "Oats with berries", "focus_nutrients": ["Fiber"]},
    "lunch": {"suggestion": "Lentil soup and salad"},
    "dinner": {"suggestion": "Grilled fish with vegetables", "focus_nutrients": ["Vitamin D"]},
    "snacks": ["Apple", "Almonds"]
  },
  "hydration_reminder": "Aim for 8 glasses of water"
}`
