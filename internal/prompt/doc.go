// Package prompt implements the operator question capability used by the
// storage domain workflow.
//
// Two implementations satisfy [Prompter]: [Terminal] asks through
// charmbracelet/huh forms (falling back to accessible line mode when the
// input is not a TTY), and [Answers] replays a scripted answer file and can
// delegate unanswered questions to another Prompter.
package prompt
