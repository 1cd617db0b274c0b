package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foldedcode/wic/utils/compiler"
	"github.com/foldedcode/wic/utils/config"
	"github.com/foldedcode/wic/utils/discovery"
	"github.com/foldedcode/wic/utils/progress"
	"github.com/foldedcode/wic/utils/render"
	"github.com/foldedcode/wic/utils/toolreg"
	"github.com/foldedcode/wic/utils/validator"
	"github.com/foldedcode/wic/utils/wictypes"
)

var (
	compileOutDir    string
	compileGraph     bool
	compileValidate  bool
	compileQuiet     bool
	compileSearchDir string
)

var compileCmd = &cobra.Command{
	Use:   "compile [root.yml]",
	Short: "Recursively elaborate a workflow tree into a CWL v1.0 workflow",
	Long: `Compile walks a root workflow document and every sub-workflow it
references, depth-first, and emits a single elaborated CWL v1.0 workflow
document, a companion inputs file, and a visualization graph.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rootPath := args[0]

		if verbose {
			fmt.Printf("[DEBUG] discovering tools and sub-workflows under %s\n", compileSearchDir)
		}

		envCfg, err := config.LoadEnvConfig(config.GetEnvPath())
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		opts := discovery.DefaultOptions()
		opts.ExtraIgnore = envCfg.IgnoreFiles

		registry := toolreg.New()
		yamlPaths := map[string]string{}

		searchDirs := append([]string{compileSearchDir}, envCfg.ToolPaths...)
		for _, dir := range searchDirs {
			toolPaths, err := discovery.FindToolDocs(dir, opts)
			if err != nil {
				return fmt.Errorf("discovering tools under %s: %w", dir, err)
			}
			for _, p := range toolPaths {
				doc, err := compiler.LoadToolDoc(p)
				if err != nil {
					log.Printf("[WARN] skipping tool %s: %v\n", p, err)
					continue
				}
				registry.Set(stemOf(p), toolreg.Entry{RunPath: p, Doc: doc})
			}

			workflowPaths, err := discovery.FindWorkflowDocs(dir, opts)
			if err != nil {
				return fmt.Errorf("discovering sub-workflows under %s: %w", dir, err)
			}
			for _, p := range workflowPaths {
				yamlPaths[stemOf(p)] = p
			}
		}

		args_ := wictypes.DefaultCompilerArgs()
		args_.CWLValidate = compileValidate
		if envCfg.ValidatorCmd != "" {
			args_.ValidatorCmd = envCfg.ValidatorCmd
		}
		if envCfg.RenderCmd != "" {
			args_.RenderCmd = envCfg.RenderCmd
		}

		c := compiler.New(args_, registry, yamlPaths)
		if !compileQuiet {
			disp := progress.NewDisplay(true)
			c.Progress = disp
		}

		doc, frame, err := c.CompileFile(rootPath, nil, true)
		if err != nil {
			return fmt.Errorf("compiling %s: %w", rootPath, err)
		}

		if err := os.MkdirAll(compileOutDir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
		base := stemOf(rootPath)
		cwlPath := filepath.Join(compileOutDir, base+".cwl")
		inputsPath := filepath.Join(compileOutDir, base+".inputs.yml")

		if err := compiler.WriteCWL(cwlPath, doc); err != nil {
			return err
		}
		inputsFile := compiler.BuildInputsFile(frame, args_.FormatHeuristics)
		if err := compiler.WriteInputsFile(inputsPath, inputsFile); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", cwlPath)
		fmt.Printf("wrote %s\n", inputsPath)

		if compileGraph {
			dot := c.Graph.RenderDOT(args_.GraphLabelEdges)
			dotPath := filepath.Join(compileOutDir, base+".dot")
			if err := render.WriteDOT(dot, dotPath); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", dotPath)

			r := render.New(args_.RenderCmd)
			pngPath := filepath.Join(compileOutDir, base+".png")
			if err := r.Render(cmd.Context(), dot, pngPath); err != nil {
				log.Printf("[WARN] rendering graph: %v\n", err)
			} else {
				fmt.Printf("wrote %s\n", pngPath)
			}
		}

		if compileValidate {
			v := validator.New(args_.ValidatorCmd)
			if err := v.Validate(context.Background(), cwlPath); err != nil {
				log.Printf("[WARN] validation failed: %v\n", err)
			} else {
				fmt.Println("validation passed")
			}
		}

		return nil
	},
}

func stemOf(path string) string {
	base := filepath.Base(path)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		return base[:idx]
	}
	return base
}

func init() {
	compileCmd.Flags().StringVarP(&compileOutDir, "out", "o", ".", "output directory for compiled artifacts")
	compileCmd.Flags().BoolVar(&compileGraph, "graph", true, "render a visualization graph alongside the compiled workflow")
	compileCmd.Flags().BoolVar(&compileValidate, "validate", false, "validate the compiled workflow with cwltool after compiling")
	compileCmd.Flags().BoolVar(&compileQuiet, "quiet", false, "suppress progress output")
	compileCmd.Flags().StringVar(&compileSearchDir, "search", ".", "directory to search for tools/ and sub-workflow documents")
	rootCmd.AddCommand(compileCmd)
}
