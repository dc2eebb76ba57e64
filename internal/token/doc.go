// Package token splits MODFLOW 6 input lines into whitespace delimited tokens.
package token
