package game

import (
	"encoding/binary"
	"math"
)

// 滴答音效合成参数
const (
	// TickSampleRate 音频上下文采样率
	TickSampleRate = 48000

	tickDuration  = 0.03   // 音效时长（秒）
	tickFrequency = 2200.0 // 主频（Hz）
	tickDecay     = 140.0  // 指数衰减系数
	tickAmplitude = 0.6
)

// SynthesizeTick 生成一段短促的"咔嗒"声
//
// 输出格式与 ebiten audio 播放器一致：16-bit 有符号小端、双声道交错 PCM。
// 指针拨片的声音由程序合成，转盘不依赖任何音频资源文件。
func SynthesizeTick(sampleRate int) []byte {
	frames := int(math.Round(float64(sampleRate) * tickDuration))
	buf := make([]byte, frames*4)

	for i := 0; i < frames; i++ {
		t := float64(i) / float64(sampleRate)
		envelope := math.Exp(-tickDecay * t)
		// 主频叠加一个八度泛音，让声音更"硬"
		v := tickAmplitude * envelope * (0.7*math.Sin(2*math.Pi*tickFrequency*t) +
			0.3*math.Sin(4*math.Pi*tickFrequency*t))
		sample := int16(v * math.MaxInt16)

		binary.LittleEndian.PutUint16(buf[i*4:], uint16(sample))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(sample))
	}

	return buf
}
