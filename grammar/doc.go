// Package grammar compiles schemas into executable parsing programs.
//
// A schema node is translated into a Production: a sequence of Symbols
// describing, in order, what a well-formed encoding of that schema
// looks like. A Parser executes productions as a pushdown automaton:
// codec operations call Advance with the terminal they are about to
// read or write, and the parser pops symbols, runs embedded actions,
// and fails with a grammar_violation when the call sequence does not
// match the schema.
//
// # Grammars
//
// Generate builds the validating grammar of a single schema. The
// grammar checks call sequences but never changes them.
//
// GenerateResolving builds the resolving grammar of a writer/reader
// schema pair. Its productions read writer-encoded bytes while
// presenting reader semantics: skip symbols drop writer-only fields,
// default symbols splice in pre-encoded reader defaults, adjust
// symbols remap enum ordinals and union branches, and resolve symbols
// mark numeric promotions. A writer-only backup grammar rides along
// for skipping.
//
// # Cycles
//
// Recursive schemas produce recursive grammars. Generation caches
// productions by node (or node pair) and drops a placeholder symbol
// where a production references one still under construction; a fixup
// pass patches placeholders to indirections once the walk completes.
// After fixup, productions are immutable and freely shareable.
//
// # Execution Order
//
// Productions are stored in reverse execution order. Pushing a
// production onto the parser stack element by element therefore leaves
// the first symbol to execute on top.
package grammar
