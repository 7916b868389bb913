package lesson

import "time"

// SampleLessonID identifies the built-in sample lesson.
const SampleLessonID = "sample-1"

// SeedLessons returns fresh copies of the built-in lessons shown before the
// user adds their own.
func SeedLessons() []*Lesson {
	return []*Lesson{{
		ID:    SampleLessonID,
		Title: "The Coffee Culture",
		FullText: "Coffee culture is the set of traditions and social behaviors that surround " +
			"the consumption of coffee, particularly as a social lubricant. The term also refers " +
			"to the cultural diffusion and adoption of coffee as a widely consumed stimulant. " +
			"In the late 20th century, espresso became an increasingly dominant phenomenon " +
			"across much of the western world.",
		Summary: "Văn hóa cà phê bao gồm các truyền thống và hành vi xã hội xung quanh việc " +
			"uống cà phê. Nó đã trở thành một hiện tượng phổ biến ở phương Tây vào cuối thế kỷ 20.",
		DateCreated: time.Now(),
		Vocabulary: []Vocabulary{
			{
				ID:                "v1",
				Word:              "Lubricant",
				IPA:               "/ˈluːbrɪkənt/",
				EnglishDefinition: "A substance that minimizes friction",
				Meaning:           "Chất bôi trơn (nghĩa bóng: chất xúc tác xã hội)",
				Type:              "noun",
			},
			{
				ID:                "v2",
				Word:              "Diffusion",
				IPA:               "/dɪˈfjuːʒn/",
				EnglishDefinition: "The spreading of something more widely",
				Meaning:           "Sự khuếch tán, sự lan truyền",
				Type:              "noun",
			},
			{
				ID:                "v3",
				Word:              "Stimulant",
				IPA:               "/ˈstɪmjələnt/",
				EnglishDefinition: "A substance that raises levels of physiological or nervous activity",
				Meaning:           "Chất kích thích",
				Type:              "noun",
			},
			{
				ID:                "v4",
				Word:              "Dominant",
				IPA:               "/ˈdɒmɪnənt/",
				EnglishDefinition: "Most important, powerful, or influential",
				Meaning:           "Chiếm ưu thế",
				Type:              "adj",
			},
		},
	}}
}
