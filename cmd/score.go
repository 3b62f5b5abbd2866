package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mikefara123/vcoin-engine/internal/model"
	"github.com/mikefara123/vcoin-engine/internal/scorer"
)

var defaults = scorer.DefaultParams()

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single content item",
	Long: `Compute the composite reward weight for one content item.

The weight combines engagement (log-compressed), post value, creator
credibility, audience trust, and the content-type multiplier. It is the
item's share basis when a reward pool is divided across a cohort.

Examples:
  # A short video with 5,000 engagements
  score --engagement 5000 --post-value 75 --credibility 300 --trust 0.8 --type short_video

  # Same item as a podcast, JSON output
  score --engagement 5000 --post-value 75 --credibility 300 --trust 0.8 --type podcast --format json`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.Int("engagement", 0, "total engagement count (views + interactions)")
	f.Float64("post-value", 75, "post value score, 0-100")
	f.Float64("credibility", 300, "creator credibility score, 0-500")
	f.Float64("trust", 0.8, "audience trust multiplier, 0.2-1.0")
	f.String("type", string(model.ContentTypeShortVideo), "content type (text, short_video, long_video, podcast)")
	f.Float64("alpha", defaults.Alpha, "credibility exponent")
	f.Float64("beta", defaults.Beta, "post value exponent")
	f.String("format", "table", "output format: table or json")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	engagement, _ := f.GetInt("engagement")
	postValue, _ := f.GetFloat64("post-value")
	credibility, _ := f.GetFloat64("credibility")
	trust, _ := f.GetFloat64("trust")
	contentType, _ := f.GetString("type")
	alpha, _ := f.GetFloat64("alpha")
	beta, _ := f.GetFloat64("beta")
	format, _ := f.GetString("format")

	item := model.ContentItem{
		EngagementTotal:    engagement,
		PostValueScore:     postValue,
		CreatorCredibility: credibility,
		TrustScore:         trust,
		Type:               model.ContentType(contentType),
	}

	engine, err := scorer.New(scorer.Params{Alpha: alpha, Beta: beta})
	if err != nil {
		return err
	}
	weight, err := engine.Score(item)
	if err != nil {
		return err
	}

	typeMult, err := item.Type.Multiplier()
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"item":            item,
			"weight":          weight,
			"type_multiplier": typeMult,
		})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Weight:\t%.6f\n", weight)
	fmt.Fprintf(w, "Engagement factor:\t%.6f\n", math.Log(1+float64(engagement)))
	fmt.Fprintf(w, "Post value factor:\t%.6f\n", math.Pow(postValue/100, beta))
	fmt.Fprintf(w, "Credibility factor:\t%.6f\n", math.Pow(credibility/500, alpha))
	fmt.Fprintf(w, "Trust factor:\t%.2f\n", trust)
	fmt.Fprintf(w, "Type multiplier:\t%.2f\n", typeMult)
	return w.Flush()
}
