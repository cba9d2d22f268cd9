package repl

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"monkey/parser"
)

// MONKEY_FACE はパーサーエラー時に表示されるモンキーのアスキーアート。
const MONKEY_FACE = `            __,__
   .--.  .-"     "-.  .--.
  / .. \/  .-. .-.  \/ .. \
 | |  '|  /   Y   \  |'  | |
 | \   \  \ 0 | 0 /  /   / |
  \ '- ,\.-"""""""-./, -' /
   ''-' /_   ^ ^   _\ '-''
       |  \._   _./  |
       \   \ '~' /   /
        '._ '-=-' _.'
           '-----'
`

// GREETING は対話モードの起動時に表示する挨拶。
const GREETING = "Hello! This is the Monkey programming language!\n" +
	"Feel free to type in commands\n"

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

// painter は色付けの有無を切り替える。
type painter bool

func (p painter) err(s string) string {
	if !p {
		return s
	}
	return red(s)
}

func (p painter) value(s string) string {
	if !p {
		return s
	}
	return blue(s)
}

// formatError はエラーを利用者向けの文字列にする。
// 位置を持つパースエラーは該当行の下にキャレットを付ける。
// name が空でなければ見出しにファイル名を入れる。width が正なら長い行を切り詰める。
func formatError(err error, src, name string, width int) string {
	var perr *parser.Error
	if !errors.As(err, &perr) {
		return "ERROR: " + err.Error() + "\n"
	}

	if pos := perr.Pos(); pos.IsValid() {
		return snippet(src, "parse error", name, pos.Line, pos.Column, perr.Error(), width)
	}
	if name != "" {
		return fmt.Sprintf("parse error in %s: %s\n", name, perr)
	}
	return "parse error: " + perr.Error() + "\n"
}

// snippet は見出しと前後1行の文脈、列を指すキャレットからなる表示を作る。
// 行と列は1始まりで、ソースの範囲外ならはみ出さないように丸める。
func snippet(src, header, name string, line, col int, msg string, width int) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, clip(lines[line-2], 0, width))
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, clip(lines[line-1], col, width))
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, clip(lines[line], 0, width))
	}
	return b.String()
}

// gutter は snippet の行番号部分の幅。
const gutter = len("   1 | ")

// clip は表示幅に収まらない行の末尾を "..." にする。
// キャレットの位置 col が隠れる場合は切り詰めない。
func clip(s string, col, width int) string {
	room := width - gutter
	if width <= 0 || len(s) <= room || room <= 3 {
		return s
	}
	if col > room-3 {
		return s
	}
	return s[:room-3] + "..."
}

// isTerminal は f が端末につながっているかを返す。
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// terminalWidth は標準出力の端末の幅を返す。端末でなければ 0。
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 0
}

// IsInteractive は標準入力と標準出力がどちらも端末かを返す。
// 端末なら行編集つきの Interactive、そうでなければ Start を使う。
func IsInteractive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}
