// Package main 은 grandtalk 명령줄 도구다.
//
// 사용법:
//
//	grandtalk serve                 HTTP 서버 실행
//	grandtalk translate <한글 댓글>  세 가지 영어 번역 출력
//	grandtalk write                 대화형 댓글 작성 (번역 선택 후 클립보드 복사)
//	grandtalk history [--limit N]   최근 번역 기록 조회
//
// 설정은 서버와 같은 환경 변수(.env)를 읽는다.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
