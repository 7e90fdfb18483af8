// Package resolver implements the Identifier Resolver (§4.2): turning an
// arbitrary user-supplied token into a canonical exercise definition
// without guessing.
package resolver

import (
	"context"
	"strconv"
	"strings"

	"github.com/ironlog-dev/ironlog/internal/logging"
	"github.com/ironlog-dev/ironlog/internal/storage"
	"github.com/ironlog-dev/ironlog/internal/types"
)

// Result is the outcome of resolving one identifier: the matched
// definition (nil if nothing matched) and which step of the algorithm
// produced it.
type Result struct {
	Definition *types.ExerciseDefinition
	Via        types.ResolvedVia
}

// Resolve implements the three-step algorithm in §4.2, stopping at the
// first step that applies:
//
//  1. If the token parses as an integer, look up by id. A miss here is
//     final — it never falls through to alias/name, which would risk a
//     numeric-looking exercise name shadowing the id the caller meant.
//  2. Look up a case-insensitive alias and dereference it.
//  3. Look up a case-insensitive exercise name.
func Resolve(ctx context.Context, store storage.Storage, token string) (Result, error) {
	if id, err := strconv.ParseInt(token, 10, 64); err == nil {
		def, err := store.GetExerciseByID(ctx, id)
		if err != nil {
			return Result{}, err
		}
		return Result{Definition: def, Via: types.ViaID}, nil
	}

	exists, err := store.AliasExists(ctx, token)
	if err != nil {
		return Result{}, err
	}
	if exists {
		aliases, err := store.ListAliases(ctx)
		if err != nil {
			return Result{}, err
		}
		var target string
		for _, a := range aliases {
			if strings.EqualFold(a.AliasName, token) {
				target = a.ExerciseName
				break
			}
		}
		def, err := store.GetExerciseByName(ctx, target)
		if err != nil {
			return Result{}, err
		}
		if def == nil {
			logging.Warn("alias %q points at missing exercise %q", token, target)
			return Result{Via: types.ViaAlias}, nil
		}
		return Result{Definition: def, Via: types.ViaAlias}, nil
	}

	def, err := store.GetExerciseByName(ctx, token)
	if err != nil {
		return Result{}, err
	}
	return Result{Definition: def, Via: types.ViaName}, nil
}
