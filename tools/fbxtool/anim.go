package main

import (
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mogaika/fbxdoc/scene"
	"github.com/mogaika/fbxdoc/utils"
)

var (
	animStep   float64
	animGlobal bool
)

func pickTake(d *scene.Document, name string) (*scene.Object, error) {
	if name != "" {
		if s := d.FindAnimationStack(name); s != nil {
			return s, nil
		}
		return nil, errors.Errorf("Take %q not found", name)
	}
	if s := d.CurrentTake(); s != nil {
		return s, nil
	}
	if stacks := d.AnimationStacks(); len(stacks) != 0 {
		return stacks[0], nil
	}
	return nil, errors.New("File has no takes")
}

// sampleTake prints curve node values at every step of take range
func sampleTake(w io.Writer, d *scene.Document, take *scene.Object, step float64, global bool) {
	stack := take.AnimationStack()
	start, stop := stack.TimeRange()
	fmt.Fprintf(w, "take %q %gs - %gs\n", utils.DisplayString(take.Name()), start, stop)

	d.SetCurrentTake(take)
	steps := int(math.Floor((stop-start)/step+1e-9)) + 1
	for i := 0; i < steps; i++ {
		t := start + float64(i)*step
		fmt.Fprintf(w, "t=%g\n", t)
		if global {
			d.ApplyAnimation(t)
		}
		for _, l := range stack.Layers() {
			for _, cn := range l.AnimationLayer().CurveNodes() {
				acn := cn.AnimationCurveNode()
				target := acn.Target()
				name := "<none>"
				if target != nil {
					name = utils.DisplayString(target.Name())
				}
				if len(acn.Curves()) > 1 {
					v := acn.EvaluateF3(t)
					fmt.Fprintf(w, "  %s %s: %g %g %g\n", name, acn.Kind, v[0], v[1], v[2])
				} else {
					fmt.Fprintf(w, "  %s %s: %g\n", name, acn.Kind, acn.EvaluateF1(t))
				}
				if global && target != nil && target.Model() != nil && acn.Kind == scene.AnimationTranslation {
					p := target.Model().GlobalMatrix().Col(3)
					fmt.Fprintf(w, "  %s global: %g %g %g\n", name, p[0], p[1], p[2])
				}
			}
		}
	}
}

var animCmd = &cobra.Command{
	Use:   "anim [file.fbx] [take]",
	Short: "Sample take curves over its time range",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if animStep <= 0 {
			return errors.Errorf("Step must be positive, got %g", animStep)
		}
		d, err := openDocument(args[0])
		if err != nil {
			return err
		}
		name := ""
		if len(args) == 2 {
			name = args[1]
		}
		take, err := pickTake(d, name)
		if err != nil {
			return err
		}
		sampleTake(cmd.OutOrStdout(), d, take, animStep, animGlobal)
		return nil
	},
}

func init() {
	animCmd.Flags().Float64VarP(&animStep, "step", "s", 1.0/30, "sampling step in seconds")
	animCmd.Flags().BoolVarP(&animGlobal, "global", "g", false, "apply take and print global positions of translated models")
	rootCmd.AddCommand(animCmd)
}
