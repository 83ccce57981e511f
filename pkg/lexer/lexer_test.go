package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestLexer_KeywordsAndIdentifiers(t *testing.T) {
	tokens, errs := New("namespace foo.bar streamlet my_streamlet").ScanAll()
	require.Empty(t, errs)
	require.Equal(t, []Kind{KwNamespace, Identifier, Dot, Identifier, KwStreamlet, Identifier, EOF}, kinds(tokens))
	assert.Equal(t, "foo", tokens[1].Text)
	assert.Equal(t, "my_streamlet", tokens[5].Text)
}

func TestLexer_NumberLiterals(t *testing.T) {
	tokens, errs := New("42 3.14 1.2.3").ScanAll()
	require.Empty(t, errs)
	require.Equal(t, []Kind{IntegerLit, FloatLit, VersionLit, EOF}, kinds(tokens))
	assert.Equal(t, "42", tokens[0].Text)
	assert.Equal(t, "3.14", tokens[1].Text)
	assert.Equal(t, "1.2.3", tokens[2].Text)
}

func TestLexer_TrailingDotIsNotConsumedIntoNumber(t *testing.T) {
	tokens, errs := New("3.").ScanAll()
	require.Empty(t, errs)
	require.Equal(t, []Kind{IntegerLit, Dot, EOF}, kinds(tokens))
}

func TestLexer_PathFragmentString(t *testing.T) {
	tokens, errs := New(`"some/path"`).ScanAll()
	require.Empty(t, errs)
	require.Equal(t, []Kind{PathFragment, EOF}, kinds(tokens))
	assert.Equal(t, "some/path", tokens[0].Text)
}

func TestLexer_UnterminatedPathFragmentReportsError(t *testing.T) {
	tokens, errs := New(`"unterminated`).ScanAll()
	require.Len(t, errs, 1)
	assert.Equal(t, []Kind{EOF}, kinds(tokens))
}

func TestLexer_DocCommentIsASignificantToken(t *testing.T) {
	tokens, errs := New("# a field # type T = Bits(8);").ScanAll()
	require.Empty(t, errs)
	require.Equal(t, DocComment, tokens[0].Kind)
	assert.Equal(t, "a field", tokens[0].Text)
	assert.Equal(t, KwType, tokens[1].Kind)
}

func TestLexer_LineAndBlockCommentsAreSkipped(t *testing.T) {
	tokens, errs := New("type // trailing comment\nT /// a block\ncomment /// = Null;").ScanAll()
	require.Empty(t, errs)
	require.Equal(t, []Kind{KwType, Identifier, Assign, KwNull, Semicolon, EOF}, kinds(tokens))
}

func TestLexer_Operators(t *testing.T) {
	tokens, errs := New("= . -- :: * + - / % > < >= <= == ( ) { } : , ;").ScanAll()
	require.Empty(t, errs)
	want := []Kind{
		Assign, Dot, DashDash, ColonColon, Star, Plus, Minus, Slash, Percent,
		Gt, Lt, Ge, Le, Eq, LParen, RParen, LBrace, RBrace, Colon, Comma, Semicolon, EOF,
	}
	require.Equal(t, want, kinds(tokens))
}

func TestLexer_InvalidCharacterRecoversAndContinues(t *testing.T) {
	tokens, errs := New("type $ T = Null;").ScanAll()
	require.Len(t, errs, 1)
	require.Equal(t, []Kind{KwType, Identifier, Assign, KwNull, Semicolon, EOF}, kinds(tokens))
}

func TestLexer_SpansTrackLineAndColumn(t *testing.T) {
	tokens, _ := New("type\nT").ScanAll()
	require.True(t, len(tokens) >= 2)
	assert.Equal(t, 1, tokens[0].Span.StartLine)
	assert.Equal(t, 2, tokens[1].Span.StartLine)
}
