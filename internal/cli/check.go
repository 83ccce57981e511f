package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tydi-lang/tilc/pkg/ast"
	"github.com/tydi-lang/tilc/pkg/complexity"
	"github.com/tydi-lang/tilc/pkg/eval"
	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/logical"
	"github.com/tydi-lang/tilc/pkg/parser"
	"github.com/tydi-lang/tilc/pkg/physical"
	"github.com/tydi-lang/tilc/pkg/project"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <manifest>",
		Short: "Load a project manifest and evaluate every namespace it names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0])
		},
	}
	cmd.Flags().Bool("strict", false, "enforce --complexity as a hard ceiling on every declared stream type")
	cmd.Flags().String("complexity", "", "maximum stream complexity allowed under --strict, e.g. 4 or 3.1")
	cmd.Flags().Bool("dump-ir", false, "print the project's declared symbols as YAML after a successful check")
	_ = viper.BindPFlag("strict", cmd.Flags().Lookup("strict"))
	_ = viper.BindPFlag("complexity", cmd.Flags().Lookup("complexity"))
	_ = viper.BindPFlag("dump-ir", cmd.Flags().Lookup("dump-ir"))
	return cmd
}

func runCheck(cmd *cobra.Command, manifestPath string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	loader := project.NewManifestLoader()
	manifest, err := loader.LoadFile(manifestPath)
	if err != nil {
		printError(errOut, manifestPath, err)
		return err
	}

	dir := filepath.Dir(manifestPath)
	files := make([]*ast.File, 0, len(manifest.Namespaces))
	for _, mns := range manifest.Namespaces {
		srcPath := filepath.Join(dir, mns.Source)
		src, readErr := os.ReadFile(srcPath)
		if readErr != nil {
			wrapped := ilerrors.Wrap(ilerrors.CodeFileIOError, fmt.Sprintf("failed to read namespace %q source", mns.Path), readErr)
			printError(errOut, srcPath, wrapped)
			return wrapped
		}

		file, parseErrs := parser.Parse(string(src))
		if len(parseErrs) > 0 {
			printParseErrors(errOut, srcPath, parseErrs)
			return fmt.Errorf("%s: %d parse error(s)", srcPath, len(parseErrs))
		}

		checkDeclaredImports(errOut, srcPath, mns, file)
		files = append(files, file)
	}

	proj := project.New(manifest.Identifier, manifest.OutputPath)
	e := eval.New(proj)
	if err := e.EvalProject(files); err != nil {
		printError(errOut, manifestPath, err)
		return err
	}

	if viper.GetBool("strict") {
		if err := enforceComplexityCeiling(e, viper.GetString("complexity")); err != nil {
			printError(errOut, manifestPath, err)
			return err
		}
	}

	fmt.Fprintf(out, "%s: ok (%d namespace(s))\n", manifest.Identifier, proj.Namespaces.Len())

	if viper.GetBool("dump-ir") {
		yamlOut, err := proj.Dump()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(yamlOut))

		if err := synthesizePhysicalStreams(out, e); err != nil {
			printError(errOut, manifestPath, err)
			return err
		}
	}
	return nil
}

// synthesizePhysicalStreams drives physical.Synthesize (and, beneath it,
// logical.Db.SplitStreams) over every namespace's declared Stream types.
// Plain type-checking never touches the physical back-end's collaborator
// surface (§4.3.4 is a separate consumer of the logical layer, out of
// this compiler's specified scope); --dump-ir's deeper inspection runs it
// as a smoke pass so a type that fails to split/synthesize is still
// caught by `til check`.
func synthesizePhysicalStreams(out io.Writer, e *eval.Evaluator) error {
	for _, nsPair := range e.Project.Namespaces.Pairs() {
		ns := nsPair.Value
		for _, typeName := range ns.Types.Declared.Keys() {
			id, _ := ns.Types.Declared.Get(typeName)
			lt := e.Logical.Lookup(id)
			if lt.Kind() != logical.KindStream {
				continue
			}
			result, err := physical.Synthesize(e.Logical, lt.StreamId())
			if err != nil {
				return ilerrors.Context(err, fmt.Sprintf("synthesizing physical streams for %s::%s", ns.Path, typeName))
			}
			fmt.Fprintf(out, "%s::%s: %d physical stream(s)\n", ns.Path, typeName, result.Streams.Len())
		}
	}
	return nil
}

// checkDeclaredImports cross-checks a manifest namespace's declared
// `imports` list (metadata the manifest carries for tooling such as
// dependency graphs, never consumed by EvalProject itself) against the
// `import` statements the namespace's own source file actually contains,
// warning rather than failing on a mismatch: the manifest's list is
// advisory, the source file's import statements are what evaluation
// actually honors, so a stale manifest entry shouldn't block a check.
func checkDeclaredImports(w io.Writer, srcPath string, mns project.ManifestNamespace, file *ast.File) {
	declared := make(map[string]bool, len(mns.Imports))
	for _, p := range mns.Imports {
		declared[p.String()] = true
	}

	actual := make(map[string]bool)
	for _, astNs := range file.Namespaces {
		if strings.Join(astNs.Path, "__") != mns.Path.String() {
			continue
		}
		for _, imp := range astNs.Imports {
			actual[strings.Join(imp.Path, "__")] = true
		}
	}

	for p := range actual {
		if !declared[p] {
			warnf(w, "%s: namespace %q imports %q, which the manifest does not declare", srcPath, mns.Path, p)
		}
	}
	for p := range declared {
		if !actual[p] {
			warnf(w, "%s: manifest declares namespace %q imports %q, which its source does not import", srcPath, mns.Path, p)
		}
	}
}

// enforceComplexityCeiling checks every namespace's declared types that
// resolve to a Stream against limit, failing closed on the first
// violation found. limit empty means --strict was given without
// --complexity, which is itself a usage error: a ceiling with nothing to
// compare against enforces nothing.
func enforceComplexityCeiling(e *eval.Evaluator, limit string) error {
	if limit == "" {
		return ilerrors.InvalidArgument("--strict requires --complexity to name a ceiling")
	}
	ceiling, err := complexity.Parse(limit)
	if err != nil {
		return err
	}
	for _, pair := range e.Project.Namespaces.Pairs() {
		ns := pair.Value
		for _, typeName := range ns.Types.Declared.Keys() {
			id, _ := ns.Types.Declared.Get(typeName)
			lt := e.Logical.Lookup(id)
			if lt.Kind() != logical.KindStream {
				continue
			}
			stream := e.Logical.LookupStream(lt.StreamId())
			if ceiling.Less(stream.Complexity) {
				return ilerrors.InvalidArgument(
					"namespace %q type %q has complexity %s, exceeding the --complexity ceiling of %s",
					ns.Path, typeName, stream.Complexity, ceiling,
				)
			}
		}
	}
	return nil
}
