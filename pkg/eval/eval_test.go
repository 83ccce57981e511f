package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tydi-lang/tilc/pkg/ast"
	"github.com/tydi-lang/tilc/pkg/logical"
	"github.com/tydi-lang/tilc/pkg/name"
	"github.com/tydi-lang/tilc/pkg/parser"
	"github.com/tydi-lang/tilc/pkg/project"
)

// evalSource parses src as a single-file project and evaluates it,
// returning the Evaluator for inspection.
func evalSource(t *testing.T, src string) *Evaluator {
	t.Helper()
	file, errs := parser.Parse(src)
	require.Empty(t, errs)
	proj := project.New("test", "build/")
	e := New(proj)
	require.NoError(t, e.EvalProject([]*ast.File{file}))
	return e
}

func mustName(s string) name.Name { return name.MustNew(s) }

func mustNSPath(s string) name.PathName { return name.NewPathName(name.MustNew(s)) }

func TestEvalProject_TypeDecl_BitsAndGroup(t *testing.T) {
	e := evalSource(t, `
namespace n {
	type Byte = Bits(8);
	type Pair = Group(a: Byte, b: Bits(4));
}
`)
	ns, ok := e.Project.Namespace(mustNSPath("n"))
	require.True(t, ok)

	byteId, ok := ns.Types.Declared.Get(mustName("Byte"))
	require.True(t, ok)
	byteType := e.Logical.Lookup(byteId)
	require.Equal(t, logical.KindBits, byteType.Kind())
	assert.Equal(t, uint64(8), byteType.Bits().Value())

	pairId, ok := ns.Types.Declared.Get(mustName("Pair"))
	require.True(t, ok)
	pairType := e.Logical.Lookup(pairId)
	require.Equal(t, logical.KindGroup, pairType.Kind())
	assert.Equal(t, 2, pairType.Fields().Len())
}

func TestEvalProject_StreamType_AppliesDefaults(t *testing.T) {
	e := evalSource(t, `
namespace n {
	type S = Stream(data: Bits(8), dimensionality: 1, synchronicity: Sync, complexity: 4, direction: Forward);
}
`)
	ns, _ := e.Project.Namespace(mustNSPath("n"))
	sId, ok := ns.Types.Declared.Get(mustName("S"))
	require.True(t, ok)
	st := e.Logical.Lookup(sId)
	require.Equal(t, logical.KindStream, st.Kind())
	stream := e.Logical.LookupStream(st.StreamId())
	assert.Equal(t, 1.0, stream.Throughput.Value())
	assert.False(t, stream.Keep)
}

func TestEvalProject_StreamType_ThroughputAcceptsFloatLiteral(t *testing.T) {
	e := evalSource(t, `
namespace n {
	type S = Stream(data: Bits(8), throughput: 1.5, dimensionality: 1, synchronicity: Sync, complexity: 4, direction: Forward);
}
`)
	ns, _ := e.Project.Namespace(mustNSPath("n"))
	sId, ok := ns.Types.Declared.Get(mustName("S"))
	require.True(t, ok)
	st := e.Logical.Lookup(sId)
	stream := e.Logical.LookupStream(st.StreamId())
	assert.Equal(t, 1.5, stream.Throughput.Value())
}

func TestEvalProject_StreamType_MissingRequiredPropertyFails(t *testing.T) {
	file, errs := parser.Parse(`
namespace n {
	type S = Stream(data: Bits(8), synchronicity: Sync, complexity: 4, direction: Forward);
}
`)
	require.Empty(t, errs)
	proj := project.New("test", "build/")
	e := New(proj)
	err := e.EvalProject([]*ast.File{file})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimensionality")
}

func TestEvalProject_StreamType_DuplicatePropertyFails(t *testing.T) {
	file, errs := parser.Parse(`
namespace n {
	type S = Stream(data: Bits(8), data: Bits(4), dimensionality: 1, synchronicity: Sync, complexity: 4, direction: Forward);
}
`)
	require.Empty(t, errs)
	proj := project.New("test", "build/")
	e := New(proj)
	err := e.EvalProject([]*ast.File{file})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestEvalProject_Interface_RejectsNonStreamPort(t *testing.T) {
	file, errs := parser.Parse(`
namespace n {
	type Byte = Bits(8);
	interface I = (a: in Byte);
}
`)
	require.Empty(t, errs)
	proj := project.New("test", "build/")
	e := New(proj)
	err := e.EvalProject([]*ast.File{file})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Stream")
}

func TestEvalProject_Interface_RejectsDuplicatePort(t *testing.T) {
	file, errs := parser.Parse(`
namespace n {
	type S = Stream(data: Bits(8), dimensionality: 1, synchronicity: Sync, complexity: 4, direction: Forward);
	interface I = (a: in S, a: out S);
}
`)
	require.Empty(t, errs)
	proj := project.New("test", "build/")
	e := New(proj)
	err := e.EvalProject([]*ast.File{file})
	require.Error(t, err)
}

func TestEvalProject_Interface_DeclaresGenericParameters(t *testing.T) {
	e := evalSource(t, `
namespace n {
	type S = Stream(data: Bits(8), dimensionality: 1, synchronicity: Sync, complexity: 4, direction: Forward);
	interface I = <width: Integer = 8; >= 1, dim: Dimensionality> (a: in S);
}
`)
	ns, _ := e.Project.Namespace(mustNSPath("n"))
	iface, ok := ns.Interfaces.Declared.Get(mustName("I"))
	require.True(t, ok)

	width, ok := iface.Parameters.Get(mustName("width"))
	require.True(t, ok)
	assert.Equal(t, int64(8), width.Default)
	assert.NoError(t, width.Validate(8))
	assert.Error(t, width.Validate(0))

	dim, ok := iface.Parameters.Get(mustName("dim"))
	require.True(t, ok)
	assert.Equal(t, int64(1), dim.Default)
}

func TestEvalProject_Interface_ParameterDefaultViolatingConditionFails(t *testing.T) {
	file, errs := parser.Parse(`
namespace n {
	type Byte = Bits(8);
	interface I = <width: Integer = 0; >= 1> (a: in Byte);
}
`)
	require.Empty(t, errs)
	proj := project.New("test", "build/")
	e := New(proj)
	err := e.EvalProject([]*ast.File{file})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "width")
}

func TestEvalProject_Streamlet_LinkImplementationLocksName(t *testing.T) {
	e := evalSource(t, `
namespace n {
	type S = Stream(data: Bits(8), dimensionality: 1, synchronicity: Sync, complexity: 4, direction: Forward);
	interface I = (a: in S, b: out S);
	streamlet Pass = I {
		impl: "external.impl";
	}
}
`)
	ns, _ := e.Project.Namespace(mustNSPath("n"))
	sl, ok := ns.Streamlets.Declared.Get(mustName("Pass"))
	require.True(t, ok)
	assert.True(t, sl.NameLocked())
}

func TestEvalProject_Streamlet_StructImplementationWiresInstances(t *testing.T) {
	e := evalSource(t, `
namespace n {
	type S = Stream(data: Bits(8), dimensionality: 1, synchronicity: Sync, complexity: 4, direction: Forward);
	interface I = (a: in S, b: out S);
	streamlet Pass = I {
		impl: "external.impl";
	}
	streamlet Wrapper = I {
		impl: {
			inst = Pass;
			a -- inst.a;
			inst.b -- b;
		}
	}
}
`)
	ns, _ := e.Project.Namespace(mustNSPath("n"))
	sl, ok := ns.Streamlets.Declared.Get(mustName("Wrapper"))
	require.True(t, ok)
	require.NotNil(t, sl.Implementation)
	assert.Equal(t, "structural", sl.Implementation.ImplementationKind())
}

func TestEvalProject_CrossNamespaceImport(t *testing.T) {
	e := evalSource(t, `
namespace a {
	type Byte = Bits(8);
}
namespace b {
	import a

	type Alias = Byte;
}
`)
	ns, _ := e.Project.Namespace(mustNSPath("b"))
	_, ok := ns.Types.Resolve(mustName("Alias"))
	assert.True(t, ok)
}

func TestEvalProject_CrossNamespaceDirectPathWithoutImport(t *testing.T) {
	file, errs := parser.Parse(`
namespace a {
	type Byte = Bits(8);
}
namespace b {
	type Alias = a::Byte;
}
`)
	require.Empty(t, errs)
	proj := project.New("test", "build/")
	e := New(proj)
	require.NoError(t, e.EvalProject([]*ast.File{file}))
	ns, _ := e.Project.Namespace(mustNSPath("b"))
	_, ok := ns.Types.Declared.Get(mustName("Alias"))
	assert.True(t, ok)
}

func TestEvalProject_ImportCycleFails(t *testing.T) {
	file, errs := parser.Parse(`
namespace a {
	import b
}
namespace b {
	import a
}
`)
	require.Empty(t, errs)
	proj := project.New("test", "build/")
	e := New(proj)
	err := e.EvalProject([]*ast.File{file})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}
