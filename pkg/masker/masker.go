package masker

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// LogConfigs пишет конфиги в лог одной строкой на каждый.
// Строки с тегом masked:"true" маскируются, вложенные структуры разворачиваются в map.
func LogConfigs(logger *zap.Logger, configs ...interface{}) error {
	for _, config := range configs {
		v := reflect.ValueOf(config)
		if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
			return ErrConfigNotPointer
		}
		v = v.Elem()

		logger.Info("config", zap.Any(v.Type().Name(), maskStructFields(v, v.Type())))
	}
	return nil
}

func maskStructFields(v reflect.Value, t reflect.Type) map[string]interface{} {
	result := make(map[string]interface{})
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		if !fieldType.IsExported() {
			continue
		}
		masked := fieldType.Tag.Get("masked") == "true"

		switch {
		case field.Kind() == reflect.Struct:
			result[fieldType.Name] = maskStructFields(field, field.Type())

		case field.Kind() == reflect.String:
			if masked {
				result[fieldType.Name] = maskSensitiveData(field.String())
			} else {
				result[fieldType.Name] = field.String()
			}

		// time.Duration и прочие Stringer'ы читаемее строкой
		case field.Type().Implements(stringerType):
			result[fieldType.Name] = field.Interface().(fmt.Stringer).String()

		default:
			result[fieldType.Name] = field.Interface()
		}
	}
	return result
}

var stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()

// maskSensitiveData оставляет первый и последний символы.
// Пустая строка остается пустой, чтобы было видно незаданный секрет.
func maskSensitiveData(data string) string {
	switch {
	case data == "":
		return ""
	case len(data) <= 2:
		return "****"
	}
	return string(data[0]) + "****" + string(data[len(data)-1])
}
