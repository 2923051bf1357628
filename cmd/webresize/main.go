// Команда webresize готовит оригиналы из images/ для веба.
package main

import "github.com/artemshloyda/galleryprep/internal/cli"

func main() {
	cli.Execute(cli.NewWebResizeCmd())
}
