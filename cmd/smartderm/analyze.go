package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"smartderm/internal/common/imgutil"
	"smartderm/internal/derm"
	"smartderm/internal/render"
)

// outputFlags are shared by the commands that print a result.
type outputFlags struct {
	format  string
	noColor bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "output", "o", "human", "Output format: human|json|yaml")
	cmd.Flags().BoolVar(&o.noColor, "no-color", false, "Disable colored output")
}

func (o *outputFlags) renderer(w io.Writer) (*render.Renderer, error) {
	f, err := render.ParseFormat(o.format)
	if err != nil {
		return nil, err
	}
	return render.New(w, f, o.noColor), nil
}

// wait runs fn behind a spinner on the error stream.
func (a *app) wait(suffix string, fn func() error) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(a.errOut))
	s.Suffix = " " + suffix
	s.Start()
	err := fn()
	s.Stop()
	return err
}

// fail prints the user-facing message and returns err for the exit status.
func fail(r *render.Renderer, err error) error {
	r.Error(userMessage(err))
	return err
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var of outputFlags
	cmd := &cobra.Command{
		Use:     "analyze IMAGE",
		Short:   "Analyze a skin photo",
		Example: "  smartderm analyze ~/Pictures/rash.jpg\n  smartderm analyze rash.png -o json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := of.renderer(a.out)
			if err != nil {
				return err
			}
			path, err := imgutil.ExpandHome(args[0])
			if err != nil {
				return err
			}
			if !imgutil.PathExists(path) {
				return fmt.Errorf("image not found: %s", args[0])
			}
			data, mimeType, err := imgutil.ReadImage(path, int64(a.cfg.MaxUploadMB)<<20)
			if err != nil {
				return err
			}
			svc := newService(a.cfg, a.log)
			var res derm.AnalysisResult
			err = a.wait("analyzing...", func() error {
				res, err = svc.Analyze(cmd.Context(), derm.Image{Data: data, MIMEType: mimeType, Name: filepath.Base(path)})
				return err
			})
			if err != nil {
				return fail(r, err)
			}
			return r.Analysis(res)
		},
	}
	of.register(cmd)
	return cmd
}

func newFoodsCmd(a *app) *cobra.Command {
	var of outputFlags
	cmd := &cobra.Command{
		Use:     "foods DISEASE",
		Short:   "Foods to eat and to avoid for a disease",
		Example: "  smartderm foods Eczema",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := of.renderer(a.out)
			if err != nil {
				return err
			}
			svc := newService(a.cfg, a.log)
			var res derm.FoodsResult
			err = a.wait("fetching food recommendations...", func() error {
				res, err = svc.RecommendFoods(cmd.Context(), strings.Join(args, " "))
				return err
			})
			if err != nil {
				return fail(r, err)
			}
			return r.Foods(res)
		},
	}
	of.register(cmd)
	return cmd
}

func newCausesCmd(a *app) *cobra.Command {
	var of outputFlags
	cmd := &cobra.Command{
		Use:     "causes DISEASE",
		Short:   "Answer clarifying questions and get likely causes",
		Long:    "Generates clarifying questions, reads one answer per line from stdin, then summarises likely causes.",
		Example: "  smartderm causes Eczema",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := of.renderer(a.out)
			if err != nil {
				return err
			}
			return a.causes(cmd.Context(), r, cmd.InOrStdin(), strings.Join(args, " "))
		},
	}
	of.register(cmd)
	return cmd
}

func (a *app) causes(ctx context.Context, r *render.Renderer, in io.Reader, disease string) error {
	svc := newService(a.cfg, a.log)
	var qs derm.QuestionsResult
	var err error
	err = a.wait("generating questions...", func() error {
		qs, err = svc.GenerateQuestions(ctx, disease)
		return err
	})
	if err != nil {
		return fail(r, err)
	}
	if err := r.Questions(qs); err != nil {
		return err
	}

	sc := bufio.NewScanner(in)
	answers := make([]derm.Answer, 0, len(qs.Questions))
	for _, q := range qs.Questions {
		ans := ""
		if sc.Scan() {
			ans = sc.Text()
		}
		answers = append(answers, derm.Answer{Question: q, Answer: ans})
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read answers: %w", err)
	}

	var res derm.CausesResult
	err = a.wait("predicting causes...", func() error {
		res, err = svc.PredictCauses(ctx, qs.DiseaseName, answers)
		return err
	})
	if err != nil {
		return fail(r, err)
	}
	return r.Causes(res)
}

func newDermatologistsCmd(a *app) *cobra.Command {
	var of outputFlags
	cmd := &cobra.Command{
		Use:     "dermatologists LAT LNG",
		Short:   "Print the map embed URL for dermatologists near a location",
		Example: "  smartderm dermatologists -- 40.7128 -74.0060",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := of.renderer(a.out)
			if err != nil {
				return err
			}
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q", args[0])
			}
			lng, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q", args[1])
			}
			m, err := newService(a.cfg, a.log).NearbyDermatologists(derm.Location{Latitude: lat, Longitude: lng})
			if err != nil {
				return fail(r, err)
			}
			return r.Map(m)
		},
	}
	of.register(cmd)
	return cmd
}
