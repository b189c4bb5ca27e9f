package model

import "strings"

// Level 题目深度，A 最轻松，D 最深入
type Level string

const (
	LevelA Level = "A"
	LevelB Level = "B"
	LevelC Level = "C"
	LevelD Level = "D"

	DefaultLevel = LevelA
)

var Levels = []Level{LevelA, LevelB, LevelC, LevelD}

var levelStyles = map[Level]string{
	LevelA: "破冰/暖身：超好答、短句、具體生活化。避免抽象大道理與逼問。",
	LevelB: "好接續的深入題：聊習慣/偏好/價值觀，務必給台階。多用二選一或請舉一個小例子。",
	LevelC: "更深入但不沉重：聊關係互動/內在想法/人生節奏，語氣自然像聊天，不要審問。",
	LevelD: "最深入但溫柔：可觸及脆弱/界線/遺憾/修復；允許不答或輕描淡寫，不逼問隱私與創傷細節。",
}

const defaultLevelStyle = "輕鬆、具體、好回答。"

// NormalizeLevel 大小写不敏感，非 A-D 一律归为 A
func NormalizeLevel(raw string) Level {
	l := Level(strings.ToUpper(strings.TrimSpace(raw)))
	if l.Valid() {
		return l
	}
	return DefaultLevel
}

func (l Level) Valid() bool {
	switch l {
	case LevelA, LevelB, LevelC, LevelD:
		return true
	}
	return false
}

func (l Level) Style() string {
	if s, ok := levelStyles[l]; ok {
		return s
	}
	return defaultLevelStyle
}

func (l Level) String() string {
	return string(l)
}
