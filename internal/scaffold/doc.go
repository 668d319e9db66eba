// Package scaffold generates a starter x2doc project from embedded
// templates. It powers the "x2doc init" command, producing the project
// manifest, a requirements file, and a sample document ready for the
// conversion tasks.
package scaffold
