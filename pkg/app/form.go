package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	val "github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	zhTranslations "github.com/go-playground/validator/v10/translations/zh"
)

// ValidError 单个字段的校验错误
type ValidError struct {
	Key     string
	Message string
}

// ValidErrors 校验错误集合
type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

func (v ValidErrors) ErrorsToString() string {
	return strings.Join(v.Errors(), ",")
}

// Maps 返回 字段名 => 错误消息 的映射
func (v ValidErrors) Maps() map[string]string {
	m := map[string]string{}
	for _, err := range v {
		m[err.Key] = err.Message
	}
	return m
}

func (v ValidErrors) MapsToString() string {
	var b strings.Builder
	for _, err := range v {
		b.WriteString(err.Key)
		b.WriteString(": ")
		b.WriteString(err.Message)
		b.WriteString("; ")
	}
	return strings.TrimSuffix(b.String(), "; ")
}

// NewValidatorTranslator 创建通用翻译器并注册校验错误翻译
// 支持 en 与 zh 两种语言
func NewValidatorTranslator() (*ut.UniversalTranslator, error) {
	uni := ut.New(en.New(), en.New(), zh.New())

	v, ok := binding.Validator.Engine().(*val.Validate)
	if !ok {
		return uni, nil
	}

	if trans, found := uni.GetTranslator("en"); found {
		if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
			return nil, err
		}
	}
	if trans, found := uni.GetTranslator("zh"); found {
		if err := zhTranslations.RegisterDefaultTranslations(v, trans); err != nil {
			return nil, err
		}
	}

	return uni, nil
}

// BindAndValid 绑定请求参数并做校验
// 校验失败时按请求语言翻译错误消息
func BindAndValid(c *gin.Context, v interface{}) (bool, ValidErrors) {
	var errs ValidErrors

	if err := c.ShouldBind(v); err != nil {
		verrs, ok := err.(val.ValidationErrors)
		if !ok {
			errs = append(errs, &ValidError{Key: "request", Message: err.Error()})
			return false, errs
		}

		trans, _ := c.Value("trans").(ut.Translator)
		if trans == nil {
			for _, fe := range verrs {
				errs = append(errs, &ValidError{Key: fe.Field(), Message: fe.Error()})
			}
			return false, errs
		}

		for key, value := range verrs.Translate(trans) {
			errs = append(errs, &ValidError{Key: key, Message: value})
		}
		return false, errs
	}

	return true, nil
}
