package cmd

import (
	"fmt"

	"github.com/shouni/go-media-kit/pkg/domain"

	"github.com/spf13/cobra"
)

// typesCmd は、サポートするコンテンツ種別とスタイルの一覧を表示するのだ。
var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "利用できるコンテンツ種別と画像スタイルを一覧しますなのだ。",
	RunE:  typesCommand,
}

func typesCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Tipos de contenido:")
	for _, ct := range domain.ContentTypes() {
		spec, _ := domain.LookupContent(ct)
		marker := "  "
		if ct == domain.FallbackContentType {
			marker = "* " // 未知の種別を受けたときのフォールバック先なのだ
		}
		fmt.Fprintf(out, "%s%-12s %s\n", marker, ct, spec.Label)
	}

	fmt.Fprintln(out, "\nEstilos de imagen:")
	for _, s := range domain.Styles() {
		marker := "  "
		if s == domain.DefaultStyle {
			marker = "* "
		}
		fmt.Fprintf(out, "%s%s\n", marker, s)
	}
	return nil
}
