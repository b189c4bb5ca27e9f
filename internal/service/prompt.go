package service

import (
	"deep_card_backend/internal/model"
	"fmt"
	"strings"
)

// Mode 出题语气
type Mode string

const (
	ModeNormal Mode = "normal"
	// ModeDirect 更直接、更俏皮的问法
	ModeDirect Mode = "direct"
)

func NormalizeMode(raw string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeDirect:
		return ModeDirect
	default:
		return ModeNormal
	}
}

type PromptInput struct {
	Level   model.Level
	Context string
	Recent  []string
	Mode    Mode
}

type Prompt struct {
	System string
	User   string
}

const (
	systemBase = "你是卡牌對話遊戲的出題器。" +
		"只輸出一題問題，不要前言、不要編號、不要解釋。" +
		"使用繁體中文，"
	toneNormal = "語氣像朋友聊天，不像面試。"
	toneDirect = "語氣俏皮直接、敢問一點，但依然友善，不像面試。"
	safetyRule = "避免性暗示、仇恨、歧視、暴力、個資。" +
		"如果主題可能讓人不舒服，改用更溫和的說法。"
)

func BuildPrompt(in PromptInput) Prompt {
	tone := toneNormal
	if in.Mode == ModeDirect {
		tone = toneDirect
	}

	recent := RecentHistory(in.Recent, RecentHistoryLimit)
	usedText := "（無）"
	if len(recent) > 0 {
		lines := make([]string, len(recent))
		for i, q := range recent {
			lines[i] = "- " + q
		}
		usedText = strings.Join(lines, "\n")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "使用者輸入的關係/情境/主題（請依此出題）：%s\n", in.Context)
	fmt.Fprintf(&b, "題目等級：%s\n", in.Level)
	fmt.Fprintf(&b, "等級風格：%s\n", in.Level.Style())
	if in.Mode == ModeDirect {
		b.WriteString("出題模式：直接版，問法可以更大膽、更好玩\n")
	}
	b.WriteString("\n請產生 1 題新的問題，並避免與下列題目重複或太相似：\n")
	b.WriteString(usedText)
	b.WriteString("\n\n規則：\n")
	b.WriteString("- 只輸出一題、單行\n")
	b.WriteString("- 20~60 字\n")
	b.WriteString("- 以問號結尾\n")
	b.WriteString("- 優先「具體好回答」：帶畫面/例子/二選一\n")
	b.WriteString("- 若怕答不上來，可在同一行用（…）給一句小台階")
	if in.Level == model.LevelD {
		b.WriteString("\n- 這是最深的等級：明確讓對方可以選擇不回答或輕描淡寫帶過")
	}

	return Prompt{
		System: systemBase + tone + safetyRule,
		User:   b.String(),
	}
}

var newlineReplacer = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// NormalizeQuestion 去掉首尾空白、换行转空格，并保证以问号结尾
func NormalizeQuestion(raw string) string {
	q := strings.TrimSpace(newlineReplacer.Replace(strings.TrimSpace(raw)))
	if q == "" {
		return ""
	}
	return EnsureQuestionMark(q)
}

func EnsureQuestionMark(q string) string {
	if strings.HasSuffix(q, "？") || strings.HasSuffix(q, "?") {
		return q
	}
	return q + "？"
}
