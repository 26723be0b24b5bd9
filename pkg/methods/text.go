package methods

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lemonberrylabs/sexpq/pkg/types"
)

// registerString registers the string methods. Offsets count code points.
func (r *Registry) registerString() {
	r.Register(types.TypeString, "includes", strIncludes)
	r.Register(types.TypeString, "startsWith", strStartsWith)
	r.Register(types.TypeString, "endsWith", strEndsWith)
	r.Register(types.TypeString, "substring", strSubstring)
	r.Register(types.TypeString, "slice", strSlice)
	r.Register(types.TypeString, "indexOf", strIndexOf)
	r.Register(types.TypeString, "lastIndexOf", strLastIndexOf)
	r.Register(types.TypeString, "charAt", strCharAt)
	r.Register(types.TypeString, "toLowerCase", strToLowerCase)
	r.Register(types.TypeString, "toUpperCase", strToUpperCase)
	r.Register(types.TypeString, "trim", strTrim)
	r.Register(types.TypeString, "trimStart", strTrimStart)
	r.Register(types.TypeString, "trimEnd", strTrimEnd)
	r.Register(types.TypeString, "concat", strConcat)
	r.Register(types.TypeString, "repeat", strRepeat)
	r.Register(types.TypeString, "split", strSplit)
	r.Register(types.TypeString, "length", strLength)
	r.Register(types.TypeString, "matches", strMatches)
}

func strIncludes(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("includes", args, 1, 1); err != nil {
		return types.Undefined, err
	}
	sub, err := stringArg("includes", args, 0)
	if err != nil {
		return types.Undefined, err
	}
	return types.NewBool(strings.Contains(target.AsString(), sub)), nil
}

func strStartsWith(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("startsWith", args, 1, 1); err != nil {
		return types.Undefined, err
	}
	prefix, err := stringArg("startsWith", args, 0)
	if err != nil {
		return types.Undefined, err
	}
	return types.NewBool(strings.HasPrefix(target.AsString(), prefix)), nil
}

func strEndsWith(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("endsWith", args, 1, 1); err != nil {
		return types.Undefined, err
	}
	suffix, err := stringArg("endsWith", args, 0)
	if err != nil {
		return types.Undefined, err
	}
	return types.NewBool(strings.HasSuffix(target.AsString(), suffix)), nil
}

// strSubstring clamps both offsets to [0, len] and swaps them if start > end.
func strSubstring(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("substring", args, 1, 2); err != nil {
		return types.Undefined, err
	}
	runes := []rune(target.AsString())
	start, err := intArg("substring", args, 0)
	if err != nil {
		return types.Undefined, err
	}
	end := len(runes)
	if len(args) == 2 {
		if end, err = intArg("substring", args, 1); err != nil {
			return types.Undefined, err
		}
	}
	start = clamp(start, 0, len(runes))
	end = clamp(end, 0, len(runes))
	if start > end {
		start, end = end, start
	}
	return types.NewString(string(runes[start:end])), nil
}

// strSlice is like substring but negative offsets count from the end and
// start > end yields "".
func strSlice(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("slice", args, 1, 2); err != nil {
		return types.Undefined, err
	}
	runes := []rune(target.AsString())
	start, err := intArg("slice", args, 0)
	if err != nil {
		return types.Undefined, err
	}
	end := len(runes)
	if len(args) == 2 {
		if end, err = intArg("slice", args, 1); err != nil {
			return types.Undefined, err
		}
	}
	start = relativeIndex(start, len(runes))
	end = relativeIndex(end, len(runes))
	if start >= end {
		return types.NewString(""), nil
	}
	return types.NewString(string(runes[start:end])), nil
}

func strIndexOf(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("indexOf", args, 1, 1); err != nil {
		return types.Undefined, err
	}
	sub, err := stringArg("indexOf", args, 0)
	if err != nil {
		return types.Undefined, err
	}
	return types.NewInt(int64(runeIndex(target.AsString(), strings.Index(target.AsString(), sub)))), nil
}

func strLastIndexOf(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("lastIndexOf", args, 1, 1); err != nil {
		return types.Undefined, err
	}
	sub, err := stringArg("lastIndexOf", args, 0)
	if err != nil {
		return types.Undefined, err
	}
	return types.NewInt(int64(runeIndex(target.AsString(), strings.LastIndex(target.AsString(), sub)))), nil
}

func strCharAt(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("charAt", args, 1, 1); err != nil {
		return types.Undefined, err
	}
	i, err := intArg("charAt", args, 0)
	if err != nil {
		return types.Undefined, err
	}
	runes := []rune(target.AsString())
	if i < 0 || i >= len(runes) {
		return types.NewString(""), nil
	}
	return types.NewString(string(runes[i])), nil
}

func strToLowerCase(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("toLowerCase", args, 0, 0); err != nil {
		return types.Undefined, err
	}
	return types.NewString(strings.ToLower(target.AsString())), nil
}

func strToUpperCase(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("toUpperCase", args, 0, 0); err != nil {
		return types.Undefined, err
	}
	return types.NewString(strings.ToUpper(target.AsString())), nil
}

func strTrim(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("trim", args, 0, 0); err != nil {
		return types.Undefined, err
	}
	return types.NewString(strings.TrimSpace(target.AsString())), nil
}

func strTrimStart(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("trimStart", args, 0, 0); err != nil {
		return types.Undefined, err
	}
	return types.NewString(strings.TrimLeftFunc(target.AsString(), isSpace)), nil
}

func strTrimEnd(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("trimEnd", args, 0, 0); err != nil {
		return types.Undefined, err
	}
	return types.NewString(strings.TrimRightFunc(target.AsString(), isSpace)), nil
}

// strConcat appends the string form of every argument.
func strConcat(target types.Value, args []types.Value) (types.Value, error) {
	var sb strings.Builder
	sb.WriteString(target.AsString())
	for _, arg := range args {
		sb.WriteString(arg.String())
	}
	return types.NewString(sb.String()), nil
}

func strRepeat(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("repeat", args, 1, 1); err != nil {
		return types.Undefined, err
	}
	n, err := intArg("repeat", args, 0)
	if err != nil {
		return types.Undefined, err
	}
	if n < 0 || n > maxRepeatLength/max(1, len(target.AsString())) {
		return types.Undefined, types.NewTypeError(fmt.Sprintf("repeat: invalid count %d", n))
	}
	return types.NewString(strings.Repeat(target.AsString(), n)), nil
}

const maxRepeatLength = 1 << 20

func strSplit(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("split", args, 1, 1); err != nil {
		return types.Undefined, err
	}
	sep, err := stringArg("split", args, 0)
	if err != nil {
		return types.Undefined, err
	}
	parts := strings.Split(target.AsString(), sep)
	result := make([]types.Value, len(parts))
	for i, p := range parts {
		result[i] = types.NewString(p)
	}
	return types.NewList(result), nil
}

func strLength(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("length", args, 0, 0); err != nil {
		return types.Undefined, err
	}
	return types.NewInt(int64(len([]rune(target.AsString())))), nil
}

// strMatches reports whether the regular expression matches anywhere in the
// target.
func strMatches(target types.Value, args []types.Value) (types.Value, error) {
	if err := requireArgs("matches", args, 1, 1); err != nil {
		return types.Undefined, err
	}
	pattern, err := stringArg("matches", args, 0)
	if err != nil {
		return types.Undefined, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return types.Undefined, types.NewTypeError(fmt.Sprintf("matches: invalid regex: %v", err))
	}
	return types.NewBool(re.MatchString(target.AsString())), nil
}

func clamp(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

// relativeIndex resolves a possibly negative offset against length n.
func relativeIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	return clamp(i, 0, n)
}

// runeIndex converts a byte offset from strings.Index into a code point
// offset, keeping -1 for "not found".
func runeIndex(s string, byteIdx int) int {
	if byteIdx < 0 {
		return -1
	}
	return len([]rune(s[:byteIdx]))
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}
