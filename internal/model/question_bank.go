package model

// QuestionBank 静态备用题库，进程启动时构建，之后只读
type QuestionBank map[Level][]string

func DefaultQuestionBank() QuestionBank {
	return QuestionBank{
		LevelA: {
			"你最近一次大笑是因為什麼？",
			"你今天心情用 1~10 分會給幾分？",
			"如果要用一種飲料形容你現在的狀態，會是什麼？",
			"你最近在迷什麼歌/影片？",
			"你最常用的口頭禪是什麼？",
		},
		LevelB: {
			"你覺得自己最加分的特質是什麼？為什麼？",
			"你遇到壓力時，通常會怎麼排解？",
			"你對『安全感』的定義是什麼？",
			"你覺得朋友之間最重要的是什麼？",
			"你曾經因為一件小事對某人改觀嗎？",
		},
		LevelC: {
			"你人生中有哪個時刻讓你覺得『我長大了』？",
			"你最害怕被別人誤解成什麼樣子？",
			"你覺得自己最難開口求助的是什麼事？",
			"你曾經後悔沒說出口的一句話是什麼？",
			"你覺得你在關係裡最常扮演什麼角色？",
		},
		LevelD: {
			"你最深的自我懷疑通常長什麼樣子？",
			"你曾經最脆弱的一段時間發生了什麼？你怎麼走過來的？",
			"你現在最想和過去的自己說一句什麼？",
			"你覺得『被愛』對你來說代表什麼？",
			"如果明天一切重來，你最想改變哪個選擇？",
		},
	}
}

// Get 返回该等级题目的副本，未知等级退回 A
func (b QuestionBank) Get(level Level) []string {
	list, ok := b[level]
	if !ok || len(list) == 0 {
		list = b[DefaultLevel]
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}
