package bot

import (
	"fmt"
	"strings"
	"time"

	"tg-park-bot/internal/model"
)

const (
	strangerText  = "Простите, я вас не знаю."
	newcomerText  = "Вы совсем недавно присоединились к нашему уютному чатику, мне нужно время, чтобы узнать вас получше."
	trustedText   = "Привет! Я робот. Я могу помочь вам найти соседей."
	noPlaceText   = "Я не знаю где вы живёте.\nЧтобы это исправить, вам нужно в чатик ЖК отправить сообщение вида #Xкорпус #Yэтаж. Например '#3корпус #11этаж'. Минут через пять после этого возвращайтесь и ещё раз нажмите /start."
	manyPlaceText = "Какая неожиданность. Похоже вы отправили несколько сообщений с указанием своего этажа. Теперь я не знаю как быть. Попробуйте написать в общий чатик."
	noNeighbors   = "Я не знаю ваших соседей, мне очень жаль. Попробуйте зайти ещё когда-нибудь."
	hasNeighbors  = "Кажется у вас есть соседи. Сейчас перешлю вам их сообщения."
	forwardHint   = "Соседи пока не видят ваше сообщение с этажом. Перешлите его мне из чатика ЖК, и я смогу показывать его соседям."
	fatalText     = "Что-то пошло не так. Попробуйте ещё раз /start через некоторое время."
)

func composeGreeting(status model.UserStatus, timeout time.Duration) string {
	switch status {
	case model.KnownButUntrusted:
		return newcomerText + "\n" + comeBackText(timeout)
	case model.KnownAndTrusted:
		return trustedText
	default:
		return strangerText
	}
}

func comeBackText(timeout time.Duration) string {
	if timeout >= 24*time.Hour {
		return "Возвращайтесь через пару дней."
	}
	return "Возвращайтесь через пару часов."
}

func composePlaces(places []model.Place, landlord, pending bool) string {
	text := describePlaces(places, landlord)
	if pending && len(places) > 0 {
		text += "\n" + forwardHint
	}
	return text
}

func describePlaces(places []model.Place, landlord bool) string {
	switch {
	case len(places) == 0:
		return noPlaceText
	case len(places) == 1:
		return fmt.Sprintf("Похоже, что вы живёте в %d-м корпусе на %d-м этаже.", places[0].Building, places[0].Floor)
	case landlord:
		var builder strings.Builder
		builder.WriteString("Вы отмечены как собственник нескольких квартир. Я знаю о таких этажах:\n")
		for _, p := range places {
			builder.WriteString(fmt.Sprintf("• %d-й корпус, %d-й этаж\n", p.Building, p.Floor))
		}
		return strings.TrimSpace(builder.String())
	default:
		return manyPlaceText
	}
}

func composeNeighbors(count int) string {
	if count == 0 {
		return noNeighbors
	}
	return hasNeighbors
}
