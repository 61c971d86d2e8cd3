package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/phaseline/internal/core"
	"github.com/valter-silva-au/phaseline/internal/storage"
	"gopkg.in/yaml.v3"
)

// planFile is the project intent read from plan.yaml: the project name and
// which documents of the template catalogue the project needs.
type planFile struct {
	Project   string   `yaml:"project"`
	Documents []string `yaml:"documents"`
	Options   struct {
		DocsDir string `yaml:"docs_dir"`
	} `yaml:"options"`
}

var initCmd = &cobra.Command{
	Use:   "init [project-name]",
	Short: "Generate the WBS from the template catalogue and project plan",
	Long: `Init turns the template catalogue and project intent into an ordered task
list: one document task per required document kind, followed by a single
human review gate depending on every review-required task. The resulting
WBS is persisted with all tasks pending; re-running init overwrites any
prior WBS for the project.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var (
	initPlanPath string
	initDocsDir  string
)

func init() {
	initCmd.Flags().StringVar(&initPlanPath, "plan", "plan.yaml", "project plan file")
	initCmd.Flags().StringVar(&initDocsDir, "docs-dir", "", "deliverable directory (overrides plan)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan(initPlanPath)
	if err != nil {
		return err
	}

	name := plan.Project
	if len(args) > 0 {
		name = args[0]
	}
	if name == "" {
		return fmt.Errorf("project name required (argument or 'project:' in %s)", initPlanPath)
	}

	docsDir := plan.Options.DocsDir
	if initDocsDir != "" {
		docsDir = initDocsDir
	}

	session := core.NewProjectSession(name)
	orch := OrchestratorFor(session)
	tasks := orch.GenerateDocumentTasks(core.GenerateOptions{
		DocsDir: docsDir,
		Kinds:   plan.Documents,
	})

	if err := WBSMgr.Initialize(name, tasks); err != nil {
		return err
	}

	analysis := make([]storage.TemplateSelection, 0, len(tasks))
	for _, t := range tasks {
		suggestion := Suggester.Suggest(t)
		analysis = append(analysis, storage.TemplateSelection{
			TaskID:     t.ID,
			Template:   t.Template,
			Suggestion: &suggestion,
		})
	}
	if err := CatalogueMgr.Save(storage.Catalogue{
		Name:     name,
		Tasks:    tasks,
		Analysis: analysis,
	}); err != nil {
		return err
	}

	fmt.Printf("Initialized project %q with %d tasks:\n", name, len(tasks))
	for _, t := range tasks {
		marker := " "
		if t.IsGate {
			marker = "G"
		}
		fmt.Printf("  [%s] %-9s %-8s %s\n", marker, t.ID, t.Phase, t.Title)
	}
	return nil
}

// loadPlan reads a plan.yaml file. A missing file yields an empty plan so
// init can run from the project-name argument alone.
func loadPlan(path string) (*planFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: plan path is user-supplied by design
	if err != nil {
		if os.IsNotExist(err) {
			return &planFile{}, nil
		}
		return nil, fmt.Errorf("reading plan %s: %w", path, err)
	}

	var plan planFile
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan %s: %w", path, err)
	}
	return &plan, nil
}
