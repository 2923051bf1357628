// Команда genthumbs создаёт превью для всех JPEG из images/.
package main

import "github.com/artemshloyda/galleryprep/internal/cli"

func main() {
	cli.Execute(cli.NewThumbsCmd())
}
