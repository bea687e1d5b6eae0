package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0
	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedBlockComment Code = 1002
	LexBadNumber                Code = 1003

	// Парсерные
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynUnclosedParen   Code = 2002
	SynExpectSymbol    Code = 2003
	SynUnknownDef      Code = 2004
	SynBadTypeBody     Code = 2005
	SynBadExtern       Code = 2006
	SynBadPattern      Code = 2007
	SynBadExpr         Code = 2008
	SynBadConstName    Code = 2009
	SynUnexpectedEOF   Code = 2010

	// Семантические
	SemaInfo            Code = 3000
	SemaUnresolvedType  Code = 3001
	SemaUnresolvedTerm  Code = 3002
	SemaUnresolvedConst Code = 3003
	SemaUnresolvedVar   Code = 3004
	SemaDuplicateSymbol Code = 3005
	SemaArityMismatch   Code = 3006
	SemaNotADecl        Code = 3007
	SemaNotAType        Code = 3008
	SemaUnknownVariant  Code = 3009
	SemaDuplicateExtern Code = 3010
	SemaRuleOverlap     Code = 3100
	SemaRuleShadowed    Code = 3101
	SemaRuleUnreachable Code = 3102

	// Ввод-вывод
	IOLoadFileError Code = 4001

	// Проект
	ProjInfo          Code = 5000
	ProjBadManifest   Code = 5001
	ProjNoSourceFiles Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number literal",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynExpectSymbol:             "Expected symbol",
	SynUnknownDef:               "Unknown definition keyword",
	SynBadTypeBody:              "Malformed type body",
	SynBadExtern:                "Malformed extern definition",
	SynBadPattern:               "Malformed pattern",
	SynBadExpr:                  "Malformed expression",
	SynBadConstName:             "Constant name must start with '$'",
	SynUnexpectedEOF:            "Unexpected end of file",
	SemaInfo:                    "Semantic information",
	SemaUnresolvedType:          "Unknown type",
	SemaUnresolvedTerm:          "Unknown term",
	SemaUnresolvedConst:         "Unknown constant",
	SemaUnresolvedVar:           "Unknown variable",
	SemaDuplicateSymbol:         "Duplicate definition",
	SemaArityMismatch:           "Wrong number of arguments",
	SemaNotADecl:                "Symbol is not a declared term",
	SemaNotAType:                "Symbol is not a type",
	SemaUnknownVariant:          "Unknown enum variant",
	SemaDuplicateExtern:         "Duplicate extern binding",
	SemaRuleOverlap:             "Rules overlap",
	SemaRuleShadowed:            "Rule is shadowed",
	SemaRuleUnreachable:         "Rule is unreachable",
	IOLoadFileError:             "I/O load file error",
	ProjInfo:                    "Project information",
	ProjBadManifest:             "Invalid project manifest",
	ProjNoSourceFiles:           "No source files",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

// Class maps a code onto the category editors see.
func (c Code) Class() Class {
	switch {
	case c == SemaRuleOverlap:
		return ClassOverlap
	case c == SemaRuleShadowed:
		return ClassShadowed
	case c == SemaRuleUnreachable:
		return ClassUnreachable
	case c >= 1000 && c < 3000:
		return ClassParse
	case c >= 3000 && c < 4000:
		return ClassType
	}
	return ClassIO
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
