// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package pkg is the collection of packages that make up the implementation of chartnote.

As in its sibling Carvel tools, packages are organized into layers and depend
on each other only as far as needed.

In the inventory, below, individual packages are named alongside their coupling
with the other packages in the codebase.

	(# of dependents) => <package name> => (# of dependencies)

# Entry Point

chartnote is built into two executable formats:

	./cmd/chartnote                  // a command-line tool
	./cmd/chartnote-lambda-website   // an AWS Lambda function

Both expose a small website: a playground that annotates a template pasted
into the browser.

	(1) => pkg/website => (2)
	(1) => pkg/playground => (0)

# Commands

The default, and most commonly used, command is "annotate". The other
commands (resolve, docs, explore, website) reuse its chart loading and
values flags.

	(2) => pkg/cmd => (9)
	(1) => pkg/cmd/annotate => (6)

# Annotating

A template is first cut into text and {{ }} expressions. Expressions are
split into words, trimmed and classified; each classified word is paired with
its values default or its definition. The result is a render plan: a list of
lines of spans.

	(3) => pkg/annotate => (4)
	(1) => pkg/texttemplate => (1)
	(1) => pkg/filepos => (0)

# Values and Definitions

Values defaults come from the chart's values files layered with overrides,
decoded into an ordered tree. Definitions are bundled Markdown tables of
built-in objects and template functions.

	(4) => pkg/values => (1)
	(3) => pkg/definitions => (0)
	(1) => pkg/orderedmap => (0)

# Interaction

The hover controller is the timer driven state machine behind disclosure
panels in both the website and the "explore" command.

	(2) => pkg/hover => (0)

# Utilities

The remainder are application-level capabilities.

	(2) => pkg/files => (0)
	(2) => pkg/cmd/ui => (0)
	(2) => pkg/experiments => (0)
	(1) => pkg/config => (4)
	(2) => pkg/version => (0)

# Dependencies

Each package's dependencies on other packages within this module are as follows
(if a package is not listed, it has no dependencies on other packages within
this module):

	pkg/cmd:
	- pkg/annotate
	- pkg/cmd/annotate
	- pkg/cmd/ui
	- pkg/definitions
	- pkg/files
	- pkg/hover
	- pkg/values
	- pkg/version
	- pkg/website
	pkg/cmd/annotate:
	- pkg/annotate
	- pkg/cmd/ui
	- pkg/config
	- pkg/files
	- pkg/values
	- pkg/version
	pkg/config:
	- pkg/annotate
	- pkg/experiments
	- pkg/hover
	- pkg/values
	pkg/annotate:
	- pkg/definitions
	- pkg/experiments
	- pkg/texttemplate
	- pkg/values
	pkg/texttemplate:
	- pkg/filepos
	pkg/values:
	- pkg/orderedmap
	pkg/website:
	- pkg/definitions
	- pkg/playground
*/
package pkg
