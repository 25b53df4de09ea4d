package checker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// DefaultPromptPath is checked when no prompt file is configured.
const DefaultPromptPath = "config/prompt.txt"

// DefaultSystemPrompt returns the built-in compliance ruleset prompt for
// ranking-claim creatives.
func DefaultSystemPrompt() string {
	return `# オリコン顧客満足度調査 クリエイティブチェック

あなたは広告クリエイティブの審査担当です。提供された画像を分析し、オリコン顧客満足度®調査の表現規定に準拠しているかを判定してください。

## チェック項目

1. 禁止表現: 「オリコンランキング」「オリコン1位」「オリコンNo.1」など、調査名を省略・改変した表現が含まれていないか
2. 必須要素: 年度、発行元（®マーク付き）、ランキング名、順位の4要素がすべて記載されているか
3. フォーマット: 要素が半角スペースで区切られているか、®マークが正しく付いているか
4. ロゴ: ロゴに変形・色変更・装飾などの禁止加工がないか
5. 視認性: 表記が判読できる大きさ・コントラストで掲載されているか

## 判定基準

- 問題なし: すべてのチェック項目を満たしている
- 問題あり: 禁止表現がある、または必須要素が欠けている
- 要確認: 画像から判断できない、または人による確認が必要

## 出力フォーマット

結果は次の形式のJSONのみで出力してください。

` + "```json" + `
{
  "file_name": "ファイル名",
  "company_name": "企業名（クリエイティブから判別）",
  "judgment": "問題なし / 問題あり / 要確認",
  "issues": [
    {
      "severity": "critical / warning / info",
      "category": "prohibited-expression / required-element / formatting / logo-integrity / visibility",
      "description": "具体的な問題内容"
    }
  ],
  "detected_elements": {
    "year": "検出された年度",
    "issuer": "検出された発行元表記",
    "ranking_name": "検出されたランキング名",
    "position": "検出された順位",
    "trademark_symbol": true
  },
  "notes": "その他の気づき・確認推奨事項"
}
` + "```" + `

検出できなかった要素は null としてください。問題がない場合 issues は空配列としてください。
`
}

// UserPrompt returns the per-image instruction embedding the display name.
func UserPrompt(displayName string) string {
	return fmt.Sprintf("このクリエイティブ画像を分析してください。ファイル名: %s\n\n必ずJSON形式で結果を出力してください。", displayName)
}

// LoadPrompt returns the ruleset prompt. A configured path must be readable;
// otherwise DefaultPromptPath is used when present, else the built-in prompt.
// The second return value names where the prompt came from.
func LoadPrompt(path string) (string, string, error) {
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("reading prompt file %s: %w", path, err)
		}
		return string(b), path, nil
	}

	b, err := os.ReadFile(DefaultPromptPath)
	switch {
	case err == nil && strings.TrimSpace(string(b)) != "":
		return string(b), DefaultPromptPath, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return "", "", fmt.Errorf("reading prompt file %s: %w", DefaultPromptPath, err)
	}
	return DefaultSystemPrompt(), "builtin", nil
}
