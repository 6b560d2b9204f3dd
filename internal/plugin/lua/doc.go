// Package lua runs user scripts that take part in tag editing.
//
// A script is a Lua file that may define any of three global functions:
//
//	function on_adding(tag)    -- return false to refuse the tag
//	function on_removing(tag)  -- return false to keep the tag
//	function suggest(query)    -- return a list of strings or tables
//
// Tags are passed as tables of string fields. Scripts run in a restricted
// state: only the base, table, string and math libraries are opened and
// loaders that reach the file system are removed. A tags module exposes
// dashify(s) and equal(a, b) with the same semantics the editor uses.
//
// Each call runs under a deadline; a script that loops forever is stopped
// when it passes.
package lua
