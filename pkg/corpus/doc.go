/*
Package corpus keeps a library of named source texts in a SQLite database so
that a sentence generator can be pointed at a stored book by name instead of a
file path. Only raw text is stored; models are always rebuilt from it.
*/
package corpus
