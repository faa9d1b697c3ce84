// Package vitals captures one-shot temperature and pulse measurements and
// derives their normal/abnormal status. It serves three callers: the
// manual `vitals` command, the alarm session's opt-in capture, and the
// threshold monitor's periodic sampling.
package vitals
