/*
Package corpus supplies training text to the markov package.

A corpus is plain text with one training line per line. It can come from a
file, from standard input, or from a SQLite-backed Store that holds named
corpora imported ahead of time. Every source is opened through the Source
interface, and failures to open or read one are reported as
markov.ErrUnreadableResource.

The SQLite driver is chosen at build time: the pure Go modernc.org/sqlite
driver by default, or github.com/mattn/go-sqlite3 with the cgo_sqlite tag.
*/
package corpus
