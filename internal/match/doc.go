// Package match provides identifier folding and edit-distance suggestions.
//
// Key functions:
//   - Fold: folds CamelCase, snake_case and kebab-case spellings to one key
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks known names that are close to a misspelled one
package match
