// Package fuzztests houses Go fuzz harnesses for the ISLE front end and the
// index (source -> lexer -> parser -> resolution walk). They guard against
// panics, hangs and out-of-range positions on arbitrary input.
//
// Назначение: прогонять байты через лексер, парсер и индекс проекта.
//
// Не делает: генерацию корпусов, запись файлов, запуск LSP.
package fuzztests
